package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableFormatter renders rows as an aligned terminal table
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new terminal table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders the rows under a header in column order. Cells missing
// from a row render empty.
func (t *TableFormatter) Format(columns []string, rows []map[string]interface{}) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(columns)

	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = formatValue(row[col])
		}
		table.Append(record)
	}

	table.Render()
	return nil
}
