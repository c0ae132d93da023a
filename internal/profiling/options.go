package profiling

import (
	"edaqa/internal/config"
)

// Options configures one profiling run
type Options struct {
	// TopK caps the frequency table of categorical columns
	TopK int
	// MissingSharePrecision is the number of decimals kept in MissingShare
	MissingSharePrecision int
	// ExampleValues is how many distinct present values each column keeps
	ExampleValues int
	// DatetimeLayouts are tried in order; a column is datetime when every
	// present value parses with one of them
	DatetimeLayouts []string
}

// OptionsFrom maps the profiling section of the configuration
func OptionsFrom(cfg config.Profiling) Options {
	return Options{
		TopK:                  cfg.TopK,
		MissingSharePrecision: cfg.MissingSharePrecision,
		ExampleValues:         cfg.ExampleValues,
		DatetimeLayouts:       cfg.DatetimeLayouts,
	}
}

// DefaultOptions returns the documented profiling defaults
func DefaultOptions() Options {
	return OptionsFrom(config.Default().Profiling)
}
