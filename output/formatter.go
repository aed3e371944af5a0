// Package output renders tables for export files and terminal display.
//
// Formatters take the table's column order plus its rows, so output
// preserves the order columns were imported or selected in. Supported
// formats:
//   - CSV: header row then one line per row, quoting only when a value
//     needs it
//   - JSON Lines: one JSON object per row
//   - Table: aligned terminal table for PRINT and query results
package output

import (
	"fmt"
	"io"
	"strconv"
)

// Formatter defines the interface for table formatters
type Formatter interface {
	// Format writes the rows in the formatter's specific format, columns
	// first
	Format(columns []string, rows []map[string]interface{}) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// formatValue converts a scalar to its output string form
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
