// Package query provides lexing and parsing for the CQL language.
//
// CQL is a small SQL-like language over named in-memory tables backed by
// delimited text files. The package includes a lexer for tokenization, a
// recursive-descent parser that builds a statement list, and a condition
// evaluator used by the engine to filter rows.
//
// Example usage:
//
//	stmts, err := query.Parse(`IMPORT TABLE obs FROM "obs.csv"; SELECT * FROM obs WHERE Temp > 22;`)
//	if err != nil {
//	    log.Fatal(err)
//	}
package query

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenImport TokenType = iota
	TokenExport
	TokenTable
	TokenFrom
	TokenAs
	TokenDiscard
	TokenRename
	TokenPrint
	TokenSelect
	TokenWhere
	TokenCreate
	TokenJoin
	TokenUsing
	TokenProcedure
	TokenDo
	TokenEnd
	TokenCall
	TokenLimit
	TokenAnd
	TokenUpdate
	TokenSet
	TokenAvg

	// Operators
	TokenEquals       // =
	TokenNotEquals    // <>
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=

	// Literals
	TokenIdent
	TokenNumber
	TokenString

	// Delimiters
	TokenComma      // ,
	TokenSemicolon  // ;
	TokenLeftParen  // (
	TokenRightParen // )
	TokenStar       // *

	// Special
	TokenEOF
)

var tokenNames = map[TokenType]string{
	TokenImport:       "IMPORT",
	TokenExport:       "EXPORT",
	TokenTable:        "TABLE",
	TokenFrom:         "FROM",
	TokenAs:           "AS",
	TokenDiscard:      "DISCARD",
	TokenRename:       "RENAME",
	TokenPrint:        "PRINT",
	TokenSelect:       "SELECT",
	TokenWhere:        "WHERE",
	TokenCreate:       "CREATE",
	TokenJoin:         "JOIN",
	TokenUsing:        "USING",
	TokenProcedure:    "PROCEDURE",
	TokenDo:           "DO",
	TokenEnd:          "END",
	TokenCall:         "CALL",
	TokenLimit:        "LIMIT",
	TokenAnd:          "AND",
	TokenUpdate:       "UPDATE",
	TokenSet:          "SET",
	TokenAvg:          "AVG",
	TokenEquals:       "=",
	TokenNotEquals:    "<>",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenIdent:        "identifier",
	TokenNumber:       "number",
	TokenString:       "string",
	TokenComma:        ",",
	TokenSemicolon:    ";",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenStar:         "*",
	TokenEOF:          "EOF",
}

// String returns a human-readable name for the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Statement is a parsed CQL statement. The set of implementations is closed;
// the unexported marker method keeps the engine's dispatch exhaustive.
type Statement interface {
	stmt()
}

// ImportStmt represents IMPORT TABLE name FROM "file";
type ImportStmt struct {
	Table string
	File  string
}

// ExportStmt represents EXPORT TABLE name AS "file";
type ExportStmt struct {
	Table string
	File  string
}

// ExportAvgStmt represents EXPORT AVG(column) FROM table AS "file";
type ExportAvgStmt struct {
	Column string
	Table  string
	File   string
}

// DiscardStmt represents DISCARD TABLE name;
type DiscardStmt struct {
	Table string
}

// RenameStmt represents RENAME TABLE old new;
type RenameStmt struct {
	From string
	To   string
}

// PrintStmt represents PRINT TABLE name; with an optional AS "title".
type PrintStmt struct {
	Table string
	Title string
}

// PrintTextStmt represents PRINT "text";
type PrintTextStmt struct {
	Text string
}

// PrintAvgStmt represents PRINT AVG(column) FROM table;
type PrintAvgStmt struct {
	Column string
	Table  string
}

// SelectStmt represents SELECT list FROM table [WHERE cond] [LIMIT n];
//
// A nil Columns slice means SELECT *. Limit carries the raw parsed number;
// the engine validates it is a non-negative integer at execution time.
type SelectStmt struct {
	Columns []string
	Table   string
	Where   Condition
	Limit   *float64
}

// CreateFromSelectStmt represents CREATE TABLE name SELECT ...;
type CreateFromSelectStmt struct {
	Table  string
	Select *SelectStmt
}

// CreateFromJoinStmt represents CREATE TABLE name FROM a JOIN b USING (col);
type CreateFromJoinStmt struct {
	Table string
	Left  string
	Right string
	Using string
}

// ProcedureStmt represents PROCEDURE name DO statements END;
type ProcedureStmt struct {
	Name string
	Body []Statement
}

// CallStmt represents CALL name;
type CallStmt struct {
	Name string
}

// UpdateStmt represents UPDATE table SET col = "value" WHERE col = "value";
//
// This is a narrow point-update: one target column bound to a string
// literal, gated by equality on exactly one other column.
type UpdateStmt struct {
	Table       string
	SetColumn   string
	SetValue    string
	WhereColumn string
	WhereValue  string
}

func (*ImportStmt) stmt()           {}
func (*ExportStmt) stmt()           {}
func (*ExportAvgStmt) stmt()        {}
func (*DiscardStmt) stmt()          {}
func (*RenameStmt) stmt()           {}
func (*PrintStmt) stmt()            {}
func (*PrintTextStmt) stmt()        {}
func (*PrintAvgStmt) stmt()         {}
func (*SelectStmt) stmt()           {}
func (*CreateFromSelectStmt) stmt() {}
func (*CreateFromJoinStmt) stmt()   {}
func (*ProcedureStmt) stmt()        {}
func (*CallStmt) stmt()             {}
func (*UpdateStmt) stmt()           {}

// Condition represents a boolean condition in a WHERE clause
type Condition interface {
	// Evaluate reports whether the row satisfies the condition. Evaluation
	// is total: a missing column makes a comparison false, never an error.
	Evaluate(row map[string]interface{}) bool
}

// AndCond combines two conditions; chains nest left-deep
type AndCond struct {
	Left  Condition
	Right Condition
}

// ComparisonCond compares a column against a literal. Value is a float64
// for NUMBER literals and a string for STRING literals or bare identifiers;
// a bare identifier is carried as a literal, never resolved against the row.
type ComparisonCond struct {
	Column   string
	Operator TokenType
	Value    interface{}
}

// Evaluate evaluates both sides of the AND
func (a *AndCond) Evaluate(row map[string]interface{}) bool {
	return a.Left.Evaluate(row) && a.Right.Evaluate(row)
}

// Evaluate looks up the column and applies the comparison operator
func (c *ComparisonCond) Evaluate(row map[string]interface{}) bool {
	value, exists := row[c.Column]
	if !exists {
		return false
	}
	return compare(value, c.Operator, c.Value)
}
