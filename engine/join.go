package engine

import (
	"fmt"
)

// joinTables performs an equi-join of two tables on a single shared column.
//
// The right table is loaded into a lookup keyed by join-column value; when
// several right rows share a key, the last one wins. Rows missing the join
// column are excluded on both sides. Merged rows take every field of the
// left row plus every field of the matched right row, the right side winning
// on a name collision, and are deduplicated by full content.
func (e *Executor) joinTables(leftName, rightName, joinColumn string) (*Table, error) {
	left, ok := e.store.Table(leftName)
	if !ok {
		return nil, fmt.Errorf("table %q does not exist", leftName)
	}
	right, ok := e.store.Table(rightName)
	if !ok {
		return nil, fmt.Errorf("table %q does not exist", rightName)
	}

	lookup := make(map[string]map[string]interface{})
	for _, row := range right.Rows {
		value, exists := row[joinColumn]
		if !exists {
			continue
		}
		lookup[rowKeyValue(value)] = row
	}

	result := &Table{
		Columns: joinColumns(left, right),
		Rows:    make([]map[string]interface{}, 0),
	}
	seen := make(map[string]bool)

	for _, leftRow := range left.Rows {
		value, exists := leftRow[joinColumn]
		if !exists {
			continue
		}
		rightRow, matched := lookup[rowKeyValue(value)]
		if !matched {
			continue
		}

		merged := make(map[string]interface{}, len(leftRow)+len(rightRow))
		for col, val := range leftRow {
			merged[col] = val
		}
		for col, val := range rightRow {
			merged[col] = val
		}

		key := rowKey(merged)
		if seen[key] {
			continue
		}
		seen[key] = true
		result.Rows = append(result.Rows, merged)
	}

	return result, nil
}

// joinColumns orders the merged column set: the left table's columns, then
// the right table's columns that are new.
func joinColumns(left, right *Table) []string {
	columns := make([]string, 0, len(left.Columns)+len(right.Columns))
	have := make(map[string]bool)
	for _, col := range left.Columns {
		columns = append(columns, col)
		have[col] = true
	}
	for _, col := range right.Columns {
		if !have[col] {
			columns = append(columns, col)
			have[col] = true
		}
	}
	return columns
}

// rowKeyValue folds a join-column value to its lookup key. Keys compare by
// stored form, so the integer 1 and the float 1 are the same key.
func rowKeyValue(v interface{}) string {
	if num, ok := numericValue(v); ok {
		return fmt.Sprintf("n:%g", num)
	}
	return fmt.Sprintf("s:%v", v)
}
