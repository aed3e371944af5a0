// Package engine executes parsed CQL statements against an in-memory store.
//
// The engine walks a statement list in program order, dispatching by
// statement kind. Tables and procedures live in a Store owned by the
// session; there is no ambient global state. Run-time errors (missing
// table, bad LIMIT, I/O failure) are recovered per statement: the failing
// statement produces a diagnostic and no store mutation, and execution
// continues with the next statement.
//
// The engine is single-threaded by contract. A host that wraps it in a
// server must add its own mutual exclusion around the Store.
package engine

import (
	"github.com/DaniloTeixeiraCastro/PL-Project/query"
)

// Table is a named, ordered sequence of rows.
//
// Columns tracks column order: header order on import, select-list order on
// projection. Rows are maps from column name to a scalar (string, int64, or
// float64); nothing enforces a uniform column set across rows.
type Table struct {
	Columns []string
	Rows    []map[string]interface{}
}

// Store holds the tables and procedures of one interpreter session.
//
// Names are unique within each map; a later definition silently replaces an
// earlier one.
type Store struct {
	tables     map[string]*Table
	procedures map[string][]query.Statement
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		tables:     make(map[string]*Table),
		procedures: make(map[string][]query.Statement),
	}
}

// Table returns the named table
func (s *Store) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// SetTable stores a table under the name, replacing any existing one
func (s *Store) SetTable(name string, t *Table) {
	s.tables[name] = t
}

// DropTable removes the named table, reporting whether it existed
func (s *Store) DropTable(name string) bool {
	if _, ok := s.tables[name]; !ok {
		return false
	}
	delete(s.tables, name)
	return true
}

// RenameTable moves a table to a new name, silently overwriting any table
// already stored under the destination. Reports whether the source existed.
func (s *Store) RenameTable(from, to string) bool {
	t, ok := s.tables[from]
	if !ok {
		return false
	}
	delete(s.tables, from)
	s.tables[to] = t
	return true
}

// Procedure returns the named procedure's statement list
func (s *Store) Procedure(name string) ([]query.Statement, bool) {
	body, ok := s.procedures[name]
	return body, ok
}

// SetProcedure stores a procedure body, replacing any same-named entry
func (s *Store) SetProcedure(name string, body []query.Statement) {
	s.procedures[name] = body
}
