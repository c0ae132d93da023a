package source

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"edaqa/domain/core"
	"edaqa/domain/table"
	"edaqa/internal/errors"
)

// SQLSource runs a query and profiles its result set. NULL becomes a
// missing cell.
type SQLSource struct {
	db    *sqlx.DB
	dsn   string
	query string
	opts  Options
}

// NewSQL creates a source that connects to a Postgres DSN on Load
func NewSQL(dsn, query string, opts Options) *SQLSource {
	return &SQLSource{dsn: dsn, query: query, opts: opts}
}

// NewSQLFromDB reuses an open connection
func NewSQLFromDB(db *sqlx.DB, query string, opts Options) *SQLSource {
	return &SQLSource{db: db, query: query, opts: opts}
}

func (s *SQLSource) Name() string { return "sql: " + s.query }

func (s *SQLSource) Load(ctx context.Context) (*table.Table, error) {
	db := s.db
	if db == nil {
		conn, err := sqlx.ConnectContext(ctx, "postgres", s.dsn)
		if err != nil {
			return nil, errors.ExternalServiceError("database", err)
		}
		defer conn.Close()
		db = conn
	}

	start := time.Now()
	rows, err := db.QueryxContext(ctx, s.query)
	if err != nil {
		return nil, errors.ExternalServiceError("database", err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, errors.ExternalServiceError("database", err)
	}

	b := newCellBuilder(s.opts)
	var records [][]table.Cell
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, errors.ExternalServiceError("database", err)
		}
		record := make([]table.Cell, len(values))
		for j, v := range values {
			record[j] = sqlCell(b, v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ExternalServiceError("database", err)
	}

	if len(records) == 0 {
		return nil, errors.InvalidInputf(core.ErrEmptyTable, "query returned no rows")
	}
	t, err := table.New(header, records)
	if err != nil {
		return nil, errors.InvalidInputf(err, "cannot read query result")
	}

	s.opts.logger().Debug("query loaded",
		zap.Int("rows", t.RowCount()),
		zap.Int("columns", t.ColumnCount()),
		zap.Duration("elapsed", time.Since(start)))
	return t, nil
}

// sqlCell renders a scanned driver value as text
func sqlCell(b cellBuilder, v any) table.Cell {
	switch x := v.(type) {
	case nil:
		return table.Cell{Null: true}
	case []byte:
		return b.cell(string(x))
	case string:
		return b.cell(x)
	case bool:
		return table.Cell{Value: strconv.FormatBool(x)}
	case int64:
		return table.Cell{Value: strconv.FormatInt(x, 10)}
	case float64:
		return table.Cell{Value: strconv.FormatFloat(x, 'g', -1, 64)}
	case time.Time:
		return table.Cell{Value: x.Format(time.RFC3339)}
	default:
		return table.Cell{Value: fmt.Sprint(x)}
	}
}
