package source

import (
	"strings"

	"edaqa/domain/table"
)

// cellBuilder turns raw strings into cells, marking configured missing
// markers as null
type cellBuilder struct {
	markers map[string]struct{}
}

func newCellBuilder(opts Options) cellBuilder {
	return cellBuilder{markers: opts.markers()}
}

func (b cellBuilder) cell(raw string) table.Cell {
	v := strings.TrimSpace(raw)
	if _, ok := b.markers[v]; ok {
		return table.Cell{Value: v, Null: true}
	}
	return table.Cell{Value: v}
}

// fromRows converts a header plus string rows into a table. With pad set,
// short rows are filled with missing cells, which spreadsheet readers need
// because trailing empty cells are not reported.
func fromRows(header []string, rows [][]string, opts Options, pad bool) (*table.Table, error) {
	b := newCellBuilder(opts)
	records := make([][]table.Cell, len(rows))
	for i, row := range rows {
		width := len(row)
		if pad && width < len(header) {
			width = len(header)
		}
		record := make([]table.Cell, width)
		for j := range record {
			if j < len(row) {
				record[j] = b.cell(row[j])
			} else {
				record[j] = table.Cell{Null: true}
			}
		}
		records[i] = record
	}
	return table.New(cleanHeader(header), records)
}
