package core

import (
	"errors"
	"fmt"
)

// Input errors raised by data sources before anything reaches the engine.
var (
	ErrEmptyTable      = errors.New("table has no data rows")
	ErrNoColumns       = errors.New("table has no columns")
	ErrRaggedRow       = errors.New("row length does not match header")
	ErrInvalidEncoding = errors.New("input is not valid UTF-8")
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// NewRaggedRowError reports the offending row (1-based, header excluded).
func NewRaggedRowError(row, got, want int) error {
	return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrRaggedRow, row, got, want)
}

// NewDuplicateColumnError names the repeated header.
func NewDuplicateColumnError(name string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
}
