// Package reader loads table files into rows for the engine.
//
// The primary format is delimited text: comma-separated fields with
// double-quote enclosure, `""` as an escaped quote inside a quoted field,
// `#` comment lines, and per-row recovery (a malformed row is skipped with
// a warning, never aborting the import). Parquet files are supported as a
// read-only ingestion convenience.
//
// Rows are returned as maps from column name to a typed scalar. The type is
// inferred once per field at import time: a field of only digits becomes an
// int64, a field containing a decimal point that parses as a number becomes
// a float64, anything else stays a string.
package reader

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ReadTable loads a table file, routing .parquet files to the parquet
// reader and everything else to the delimited-text codec. It returns the
// column order and the rows.
func ReadTable(path string) ([]string, []map[string]interface{}, error) {
	if strings.HasSuffix(path, ".parquet") {
		return ReadParquet(path)
	}
	return ReadCSV(path)
}

// ParseLine splits one line of delimited text into its fields.
//
// A '"' outside a quoted region opens one; '""' inside a quoted region is a
// literal quote; any other '"' inside a quoted region closes it; a ','
// outside a quoted region ends the field. Fields are trimmed of surrounding
// whitespace. A field left open at end of line is a malformed-quoting error.
func ParseLine(line string) ([]string, error) {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if !inQuotes {
				inQuotes = true
			} else if i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = false
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}

	fields = append(fields, strings.TrimSpace(current.String()))
	if inQuotes {
		return nil, fmt.Errorf("unclosed quote")
	}
	return fields, nil
}

// ReadCSV imports a delimited text file.
//
// Blank lines and lines starting with '#' are ignored. The first remaining
// line is the header; it must be non-empty with no blank field and no field
// containing a comma. Data rows whose field count does not match the header,
// or that fail to parse, are skipped with a warning. One bad row never
// aborts the import.
func ReadCSV(path string) ([]string, []map[string]interface{}, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	type numberedLine struct {
		text string
		num  int
	}

	var lines []numberedLine
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, numberedLine{text: text, num: lineNum})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("%s is empty or contains only comments", path)
	}

	header, err := ParseLine(lines[0].text)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid header in %s: %w", path, err)
	}
	for _, col := range header {
		if col == "" || strings.Contains(col, ",") {
			return nil, nil, fmt.Errorf("invalid column name %q in %s", col, path)
		}
	}

	rows := make([]map[string]interface{}, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values, err := ParseLine(line.text)
		if err != nil {
			log.Warnf("skipping line %d of %s: %v", line.num, path, err)
			continue
		}
		if len(values) != len(header) {
			log.Warnf("skipping line %d of %s: has %d values, expected %d", line.num, path, len(values), len(header))
			continue
		}

		row := make(map[string]interface{}, len(header))
		for i, col := range header {
			row[col] = inferValue(values[i])
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// inferValue assigns a field its imported type
func inferValue(field string) interface{} {
	if isDigits(field) {
		if n, err := strconv.ParseInt(field, 10, 64); err == nil {
			return n
		}
		// Too many digits for int64; keep the numeric reading
		if f, err := strconv.ParseFloat(field, 64); err == nil {
			return f
		}
	}
	if strings.Contains(field, ".") {
		if f, err := strconv.ParseFloat(field, 64); err == nil {
			return f
		}
	}
	return field
}

// isDigits reports whether the field is one or more decimal digits
func isDigits(field string) bool {
	if field == "" {
		return false
	}
	for _, ch := range field {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
