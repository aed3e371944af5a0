package query

import (
	"fmt"
	"strconv"
)

// Parser parses a CQL token stream into a statement list
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

// syntaxError reports the offending token with its kind, value, and line
func (p *Parser) syntaxError(expected string) error {
	tok := p.current()
	if tok.Type == TokenEOF {
		return fmt.Errorf("syntax error at end of input: expected %s", expected)
	}
	return fmt.Errorf("syntax error at %s (value: %q) at line %d: expected %s", tok.Type, tok.Value, tok.Line, expected)
}

// expect checks that the current token matches and advances past it
func (p *Parser) expect(tokType TokenType) (Token, error) {
	tok := p.current()
	if tok.Type != tokType {
		return Token{}, p.syntaxError(tokType.String())
	}
	p.advance()
	return tok, nil
}

// Parse parses a full CQL program into an ordered statement list.
//
// Parsing aborts on the first syntax error; no partial statement list is
// returned, so a program with one invalid statement executes nothing.
func Parse(source string) ([]Statement, error) {
	parser := NewParser(Tokenize(source))
	return parser.parseProgram()
}

// parseProgram parses: statement+
func (p *Parser) parseProgram() ([]Statement, error) {
	var stmts []Statement
	for p.current().Type != TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("syntax error at end of input: empty program")
	}
	return stmts, nil
}

// parseStatement dispatches on the leading keyword
func (p *Parser) parseStatement() (Statement, error) {
	switch p.current().Type {
	case TokenImport:
		return p.parseImport()
	case TokenExport:
		return p.parseExport()
	case TokenDiscard:
		return p.parseDiscard()
	case TokenRename:
		return p.parseRename()
	case TokenPrint:
		return p.parsePrint()
	case TokenSelect:
		return p.parseSelect()
	case TokenCreate:
		return p.parseCreateTable()
	case TokenProcedure:
		return p.parseProcedure()
	case TokenCall:
		return p.parseCall()
	case TokenUpdate:
		return p.parseUpdate()
	default:
		return nil, p.syntaxError("a statement")
	}
}

// parseImport parses: IMPORT TABLE ID FROM STRING ';'
func (p *Parser) parseImport() (Statement, error) {
	p.advance()
	if _, err := p.expect(TokenTable); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenFrom); err != nil {
		return nil, err
	}
	file, err := p.expect(TokenString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &ImportStmt{Table: name.Value, File: file.Value}, nil
}

// parseExport parses: EXPORT TABLE ID AS STRING ';'
// or: EXPORT AVG '(' ID ')' FROM ID AS STRING ';'
func (p *Parser) parseExport() (Statement, error) {
	p.advance()
	if p.current().Type == TokenAvg {
		p.advance()
		column, table, err := p.parseAvgSource()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenAs); err != nil {
			return nil, err
		}
		file, err := p.expect(TokenString)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		return &ExportAvgStmt{Column: column, Table: table, File: file.Value}, nil
	}

	if _, err := p.expect(TokenTable); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenAs); err != nil {
		return nil, err
	}
	file, err := p.expect(TokenString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &ExportStmt{Table: name.Value, File: file.Value}, nil
}

// parseAvgSource parses: '(' ID ')' FROM ID
func (p *Parser) parseAvgSource() (string, string, error) {
	if _, err := p.expect(TokenLeftParen); err != nil {
		return "", "", err
	}
	column, err := p.expect(TokenIdent)
	if err != nil {
		return "", "", err
	}
	if _, err := p.expect(TokenRightParen); err != nil {
		return "", "", err
	}
	if _, err := p.expect(TokenFrom); err != nil {
		return "", "", err
	}
	table, err := p.expect(TokenIdent)
	if err != nil {
		return "", "", err
	}
	return column.Value, table.Value, nil
}

// parseDiscard parses: DISCARD TABLE ID ';'
func (p *Parser) parseDiscard() (Statement, error) {
	p.advance()
	if _, err := p.expect(TokenTable); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &DiscardStmt{Table: name.Value}, nil
}

// parseRename parses: RENAME TABLE ID ID ';'
func (p *Parser) parseRename() (Statement, error) {
	p.advance()
	if _, err := p.expect(TokenTable); err != nil {
		return nil, err
	}
	from, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	to, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &RenameStmt{From: from.Value, To: to.Value}, nil
}

// parsePrint parses: PRINT TABLE ID [AS STRING] ';'
// or: PRINT AVG '(' ID ')' FROM ID ';'
// or: PRINT STRING ';'
func (p *Parser) parsePrint() (Statement, error) {
	p.advance()
	switch p.current().Type {
	case TokenTable:
		p.advance()
		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		var title string
		if p.current().Type == TokenAs {
			p.advance()
			t, err := p.expect(TokenString)
			if err != nil {
				return nil, err
			}
			title = t.Value
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		return &PrintStmt{Table: name.Value, Title: title}, nil
	case TokenAvg:
		p.advance()
		column, table, err := p.parseAvgSource()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		return &PrintAvgStmt{Column: column, Table: table}, nil
	case TokenString:
		text := p.current().Value
		p.advance()
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		return &PrintTextStmt{Text: text}, nil
	default:
		return nil, p.syntaxError("TABLE, AVG, or a string")
	}
}

// parseSelect parses: SELECT select_list FROM ID [WHERE condition] [LIMIT NUMBER] ';'
func (p *Parser) parseSelect() (*SelectStmt, error) {
	p.advance()
	columns, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenFrom); err != nil {
		return nil, err
	}
	table, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	stmt := &SelectStmt{Columns: columns, Table: table.Value}

	if p.current().Type == TokenWhere {
		p.advance()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		stmt.Where = cond
	}

	if p.current().Type == TokenLimit {
		p.advance()
		num, err := p.expect(TokenNumber)
		if err != nil {
			return nil, err
		}
		limit, err := strconv.ParseFloat(num.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("syntax error at %s (value: %q) at line %d: invalid number", num.Type, num.Value, num.Line)
		}
		stmt.Limit = &limit
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseSelectList parses: '*' | ID (',' ID)*
//
// A nil result means '*'.
func (p *Parser) parseSelectList() ([]string, error) {
	if p.current().Type == TokenStar {
		p.advance()
		return nil, nil
	}

	first, err := p.expect(TokenIdent)
	if err != nil {
		return nil, p.syntaxError("'*' or a column list")
	}
	columns := []string{first.Value}
	for p.current().Type == TokenComma {
		p.advance()
		col, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col.Value)
	}
	return columns, nil
}

// parseCondition parses: ID cmp_op value (AND ID cmp_op value)*
//
// AND is left-associative, so chains nest left-deep and compound conditions
// evaluate left to right.
func (p *Parser) parseCondition() (Condition, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &AndCond{Left: left, Right: right}
	}
	return left, nil
}

// parseComparison parses: ID cmp_op value
func (p *Parser) parseComparison() (Condition, error) {
	column, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	op := p.current()
	switch op.Type {
	case TokenEquals, TokenNotEquals, TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual:
		p.advance()
	default:
		return nil, p.syntaxError("a comparison operator")
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &ComparisonCond{Column: column.Value, Operator: op.Type, Value: value}, nil
}

// parseValue parses: NUMBER | STRING | ID
//
// An ID here is carried as a literal string; it is never dereferenced
// against the row being evaluated.
func (p *Parser) parseValue() (interface{}, error) {
	tok := p.current()
	switch tok.Type {
	case TokenNumber:
		p.advance()
		num, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("syntax error at %s (value: %q) at line %d: invalid number", tok.Type, tok.Value, tok.Line)
		}
		return num, nil
	case TokenString, TokenIdent:
		p.advance()
		return tok.Value, nil
	default:
		return nil, p.syntaxError("a number, string, or identifier")
	}
}

// parseCreateTable parses: CREATE TABLE ID select
// or: CREATE TABLE ID FROM ID JOIN ID USING '(' ID ')' ';'
func (p *Parser) parseCreateTable() (Statement, error) {
	p.advance()
	if _, err := p.expect(TokenTable); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	switch p.current().Type {
	case TokenSelect:
		sel, err := p.parseSelect()
		if err != nil {
			return nil, err
		}
		return &CreateFromSelectStmt{Table: name.Value, Select: sel}, nil
	case TokenFrom:
		p.advance()
		left, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenJoin); err != nil {
			return nil, err
		}
		right, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenUsing); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenLeftParen); err != nil {
			return nil, err
		}
		using, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		return &CreateFromJoinStmt{Table: name.Value, Left: left.Value, Right: right.Value, Using: using.Value}, nil
	default:
		return nil, p.syntaxError("SELECT or FROM")
	}
}

// parseProcedure parses: PROCEDURE ID DO statement+ END ';'
func (p *Parser) parseProcedure() (Statement, error) {
	p.advance()
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenDo); err != nil {
		return nil, err
	}

	var body []Statement
	for p.current().Type != TokenEnd {
		if p.current().Type == TokenEOF {
			return nil, p.syntaxError("END")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if len(body) == 0 {
		return nil, p.syntaxError("a statement")
	}
	p.advance() // skip END
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &ProcedureStmt{Name: name.Value, Body: body}, nil
}

// parseCall parses: CALL ID ';'
func (p *Parser) parseCall() (Statement, error) {
	p.advance()
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &CallStmt{Name: name.Value}, nil
}

// parseUpdate parses: UPDATE ID SET ID '=' STRING WHERE ID '=' STRING ';'
func (p *Parser) parseUpdate() (Statement, error) {
	p.advance()
	table, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSet); err != nil {
		return nil, err
	}
	setCol, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEquals); err != nil {
		return nil, err
	}
	setVal, err := p.expect(TokenString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenWhere); err != nil {
		return nil, err
	}
	whereCol, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEquals); err != nil {
		return nil, err
	}
	whereVal, err := p.expect(TokenString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return &UpdateStmt{
		Table:       table.Value,
		SetColumn:   setCol.Value,
		SetValue:    setVal.Value,
		WhereColumn: whereCol.Value,
		WhereValue:  whereVal.Value,
	}, nil
}
