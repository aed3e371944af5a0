package engine

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/DaniloTeixeiraCastro/PL-Project/output"
	"github.com/DaniloTeixeiraCastro/PL-Project/query"
	"github.com/DaniloTeixeiraCastro/PL-Project/reader"
)

// Result formats for SELECT output
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// Executor interprets CQL statements against a Store.
//
// Status and result text goes to the configured writer; diagnostics go
// through the logger.
type Executor struct {
	store        *Store
	out          io.Writer
	resultFormat string
}

// NewExecutor creates an executor over the given store, writing status and
// result text to out. SELECT results render as a terminal table unless
// SetResultFormat says otherwise.
func NewExecutor(store *Store, out io.Writer) *Executor {
	return &Executor{store: store, out: out, resultFormat: FormatTable}
}

// SetResultFormat selects the formatter used for SELECT output
func (e *Executor) SetResultFormat(name string) error {
	switch name {
	case FormatTable, FormatCSV, FormatJSON:
		e.resultFormat = name
		return nil
	}
	return fmt.Errorf("unknown result format %q (expected table, csv, or json)", name)
}

func (e *Executor) resultFormatter() output.Formatter {
	switch e.resultFormat {
	case FormatCSV:
		return output.NewCSVFormatter(e.out)
	case FormatJSON:
		return output.NewJSONFormatter(e.out)
	default:
		return output.NewTableFormatter(e.out)
	}
}

// Store returns the executor's store
func (e *Executor) Store() *Store {
	return e.store
}

// Execute runs a statement list in program order.
//
// A failing statement is reported and mutates nothing, and execution
// continues with the next statement. No error is fatal to the run.
func (e *Executor) Execute(stmts []query.Statement) {
	for _, stmt := range stmts {
		if err := e.executeStatement(stmt); err != nil {
			log.Errorf("%v", err)
		}
	}
}

// executeStatement dispatches one statement by kind
func (e *Executor) executeStatement(stmt query.Statement) error {
	switch s := stmt.(type) {
	case *query.ImportStmt:
		return e.executeImport(s)
	case *query.ExportStmt:
		return e.executeExport(s)
	case *query.ExportAvgStmt:
		return e.executeExportAvg(s)
	case *query.DiscardStmt:
		if !e.store.DropTable(s.Table) {
			return fmt.Errorf("table %q does not exist", s.Table)
		}
		fmt.Fprintf(e.out, "Table %s discarded\n", s.Table)
		return nil
	case *query.RenameStmt:
		if !e.store.RenameTable(s.From, s.To) {
			return fmt.Errorf("table %q does not exist", s.From)
		}
		fmt.Fprintf(e.out, "Table %s renamed to %s\n", s.From, s.To)
		return nil
	case *query.PrintStmt:
		return e.executePrint(s)
	case *query.PrintTextStmt:
		fmt.Fprintln(e.out, s.Text)
		return nil
	case *query.PrintAvgStmt:
		avg, err := e.average(s.Column, s.Table)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "AVG(%s) FROM %s = %g\n", s.Column, s.Table, avg)
		return nil
	case *query.SelectStmt:
		result, err := e.selectRows(s)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.out, "Query result:")
		return e.resultFormatter().Format(result.Columns, result.Rows)
	case *query.CreateFromSelectStmt:
		result, err := e.selectRows(s.Select)
		if err != nil {
			return err
		}
		e.store.SetTable(s.Table, result)
		fmt.Fprintf(e.out, "Table %s created from SELECT (%d rows)\n", s.Table, len(result.Rows))
		return nil
	case *query.CreateFromJoinStmt:
		result, err := e.joinTables(s.Left, s.Right, s.Using)
		if err != nil {
			return err
		}
		e.store.SetTable(s.Table, result)
		fmt.Fprintf(e.out, "Table %s created from JOIN (%d rows)\n", s.Table, len(result.Rows))
		return nil
	case *query.ProcedureStmt:
		e.store.SetProcedure(s.Name, s.Body)
		fmt.Fprintf(e.out, "Procedure %s defined\n", s.Name)
		return nil
	case *query.CallStmt:
		// Re-enters Execute synchronously. There is deliberately no cycle or
		// depth guard: a procedure that calls itself recurses until the
		// goroutine stack is exhausted.
		body, ok := e.store.Procedure(s.Name)
		if !ok {
			return fmt.Errorf("procedure %q does not exist", s.Name)
		}
		e.Execute(body)
		return nil
	case *query.UpdateStmt:
		return e.executeUpdate(s)
	default:
		return fmt.Errorf("unknown statement type %T", stmt)
	}
}

// executeImport loads a file into a new table, replacing any table already
// stored under this name. Files ending in .parquet are read with the parquet
// reader; everything else goes through the delimited-text codec. A failed
// import leaves the store untouched.
func (e *Executor) executeImport(s *query.ImportStmt) error {
	columns, rows, err := reader.ReadTable(s.File)
	if err != nil {
		return fmt.Errorf("import into %q: %w", s.Table, err)
	}
	e.store.SetTable(s.Table, &Table{Columns: columns, Rows: rows})
	fmt.Fprintf(e.out, "Imported %d rows into table %s\n", len(rows), s.Table)
	return nil
}

// executeExport writes a table to a file: JSON Lines for .json files,
// otherwise CSV with the header in column order. An empty table with known
// columns produces a header-only CSV.
func (e *Executor) executeExport(s *query.ExportStmt) error {
	t, ok := e.store.Table(s.Table)
	if !ok {
		return fmt.Errorf("table %q does not exist", s.Table)
	}

	file, err := os.Create(s.File)
	if err != nil {
		return fmt.Errorf("export %q: %w", s.Table, err)
	}
	defer func() { _ = file.Close() }()

	var formatter output.Formatter
	if strings.HasSuffix(s.File, ".json") {
		formatter = output.NewJSONFormatter(file)
	} else {
		formatter = output.NewCSVFormatter(file)
	}
	if err := formatter.Format(t.Columns, t.Rows); err != nil {
		return fmt.Errorf("export %q: %w", s.Table, err)
	}

	fmt.Fprintf(e.out, "Exported %d rows to %s\n", len(t.Rows), s.File)
	return nil
}

// executeExportAvg writes a one-column, one-row CSV with the column average
func (e *Executor) executeExportAvg(s *query.ExportAvgStmt) error {
	avg, err := e.average(s.Column, s.Table)
	if err != nil {
		return err
	}

	file, err := os.Create(s.File)
	if err != nil {
		return fmt.Errorf("export AVG(%s): %w", s.Column, err)
	}
	defer func() { _ = file.Close() }()

	formatter := output.NewCSVFormatter(file)
	column := fmt.Sprintf("avg(%s)", s.Column)
	err = formatter.Format([]string{column}, []map[string]interface{}{{column: avg}})
	if err != nil {
		return fmt.Errorf("export AVG(%s): %w", s.Column, err)
	}

	fmt.Fprintf(e.out, "Exported AVG(%s) FROM %s to %s\n", s.Column, s.Table, s.File)
	return nil
}

// executePrint renders a table to the output writer
func (e *Executor) executePrint(s *query.PrintStmt) error {
	t, ok := e.store.Table(s.Table)
	if !ok {
		return fmt.Errorf("table %q does not exist", s.Table)
	}

	title := s.Title
	if title == "" {
		title = fmt.Sprintf("Table: %s", s.Table)
	}
	fmt.Fprintln(e.out, title)

	formatter := output.NewTableFormatter(e.out)
	return formatter.Format(t.Columns, t.Rows)
}

// executeUpdate sets one column to a string literal on every row matching
// the equality gate, using the engine's comparison rules.
func (e *Executor) executeUpdate(s *query.UpdateStmt) error {
	t, ok := e.store.Table(s.Table)
	if !ok {
		return fmt.Errorf("table %q does not exist", s.Table)
	}

	gate := &query.ComparisonCond{Column: s.WhereColumn, Operator: query.TokenEquals, Value: s.WhereValue}
	count := 0
	for _, row := range t.Rows {
		if gate.Evaluate(row) {
			row[s.SetColumn] = s.SetValue
			count++
		}
	}

	if count > 0 && !containsColumn(t.Columns, s.SetColumn) {
		t.Columns = append(t.Columns, s.SetColumn)
	}

	fmt.Fprintf(e.out, "Updated %d rows in table %s\n", count, s.Table)
	return nil
}

func containsColumn(columns []string, name string) bool {
	for _, col := range columns {
		if col == name {
			return true
		}
	}
	return false
}
