package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/DaniloTeixeiraCastro/PL-Project/query"
)

// selectRows evaluates a SELECT against the store: filter, dedupe, limit,
// then projection, in that order.
//
// A LIMIT that is not a non-negative integer is a recovered error: it is
// reported and the result is empty, matching the overall per-statement
// recovery model.
func (e *Executor) selectRows(stmt *query.SelectStmt) (*Table, error) {
	t, ok := e.store.Table(stmt.Table)
	if !ok {
		return nil, fmt.Errorf("table %q does not exist", stmt.Table)
	}

	filtered := filterRows(t.Rows, stmt.Where)

	if stmt.Limit != nil {
		limit := *stmt.Limit
		if limit < 0 || limit != math.Trunc(limit) {
			log.Errorf("invalid LIMIT %v: must be a non-negative integer", limit)
			return &Table{Columns: resultColumns(t, stmt), Rows: []map[string]interface{}{}}, nil
		}
		if n := int(limit); n < len(filtered) {
			filtered = filtered[:n]
		}
	}

	return &Table{
		Columns: resultColumns(t, stmt),
		Rows:    projectRows(filtered, stmt.Columns),
	}, nil
}

// resultColumns returns the column order of a SELECT result: the source
// table's order for '*', otherwise the select list's order.
func resultColumns(t *Table, stmt *query.SelectStmt) []string {
	if stmt.Columns == nil {
		columns := make([]string, len(t.Columns))
		copy(columns, t.Columns)
		return columns
	}
	columns := make([]string, len(stmt.Columns))
	copy(columns, stmt.Columns)
	return columns
}

// filterRows keeps rows satisfying the condition, dropping duplicates as it
// goes. Two rows are duplicates iff their full column-value sets are equal,
// irrespective of column ordering; the first occurrence wins, so the result
// preserves the source's relative order.
func filterRows(rows []map[string]interface{}, cond query.Condition) []map[string]interface{} {
	filtered := make([]map[string]interface{}, 0)
	seen := make(map[string]bool)

	for _, row := range rows {
		if cond != nil && !cond.Evaluate(row) {
			continue
		}
		key := rowKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		filtered = append(filtered, row)
	}

	return filtered
}

// projectRows copies rows, keeping only the named columns. Columns absent
// from a row are omitted from its copy, not padded. A nil column list means
// '*': full copies.
func projectRows(rows []map[string]interface{}, columns []string) []map[string]interface{} {
	projected := make([]map[string]interface{}, 0, len(rows))

	for _, row := range rows {
		newRow := make(map[string]interface{})
		if columns == nil {
			for col, val := range row {
				newRow[col] = val
			}
		} else {
			for _, col := range columns {
				if val, exists := row[col]; exists {
					newRow[col] = val
				}
			}
		}
		projected = append(projected, newRow)
	}

	return projected
}

// rowKey builds a deduplication key from a row's full column-value set
func rowKey(row map[string]interface{}) string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	var key strings.Builder
	for i, col := range columns {
		if i > 0 {
			key.WriteString("\x00||\x00")
		}
		key.WriteString(col)
		key.WriteString("\x00:\x00")
		key.WriteString(fmt.Sprintf("%#v", row[col]))
	}

	return key.String()
}

// numericValue coerces a scalar to float64: numbers directly, strings only
// if they parse.
func numericValue(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int64:
		return float64(val), true
	case string:
		num, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return num, true
	default:
		return 0, false
	}
}

// average computes the arithmetic mean of a column's numeric values.
// Non-numeric values are skipped; a column with no numeric values is an
// error.
func (e *Executor) average(column, table string) (float64, error) {
	t, ok := e.store.Table(table)
	if !ok {
		return 0, fmt.Errorf("table %q does not exist", table)
	}

	var sum float64
	count := 0
	for _, row := range t.Rows {
		value, exists := row[column]
		if !exists {
			continue
		}
		if num, ok := numericValue(value); ok {
			sum += num
			count++
		}
	}

	if count == 0 {
		return 0, fmt.Errorf("column %q of table %q has no numeric values", column, table)
	}
	return sum / float64(count), nil
}
