package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
)

// keywords maps reserved words to their token types. Keywords are
// case-sensitive: they share the lexical shape of identifiers and are
// recognized by exact string match, so "select" is an ordinary identifier.
var keywords = map[string]TokenType{
	"IMPORT":    TokenImport,
	"EXPORT":    TokenExport,
	"TABLE":     TokenTable,
	"FROM":      TokenFrom,
	"AS":        TokenAs,
	"DISCARD":   TokenDiscard,
	"RENAME":    TokenRename,
	"PRINT":     TokenPrint,
	"SELECT":    TokenSelect,
	"WHERE":     TokenWhere,
	"CREATE":    TokenCreate,
	"JOIN":      TokenJoin,
	"USING":     TokenUsing,
	"PROCEDURE": TokenProcedure,
	"DO":        TokenDo,
	"END":       TokenEnd,
	"CALL":      TokenCall,
	"LIMIT":     TokenLimit,
	"AND":       TokenAnd,
	"UPDATE":    TokenUpdate,
	"SET":       TokenSet,
	"AVG":       TokenAvg,
}

// Lexer tokenizes CQL source text. Input is UTF-8; pos is the byte offset
// of the first undecoded byte.
type Lexer struct {
	input string
	pos   int
	ch    rune
	line  int
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

// readChar decodes the next rune
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
	}
	if l.pos >= len(l.input) {
		l.ch = 0
		return
	}
	r, width := utf8.DecodeRuneInString(l.input[l.pos:])
	l.ch = r
	l.pos += width
}

// peekChar looks at the next rune without advancing
func (l *Lexer) peekChar() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// skipLineComment discards the rest of the line after --
func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipBlockComment discards a {- ... -} comment, stopping at the nearest
// closing marker. An unterminated comment runs to end of input.
func (l *Lexer) skipBlockComment() {
	l.readChar() // skip {
	l.readChar() // skip -
	for l.ch != 0 {
		if l.ch == '-' && l.peekChar() == '}' {
			l.readChar()
			l.readChar()
			return
		}
		l.readChar()
	}
}

// readString reads a double-quoted string literal. No escape processing is
// applied beyond stripping the quotes; embedded commas are preserved.
func (l *Lexer) readString() (string, bool) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.ch != '"' && l.ch != 0 {
		result.WriteRune(l.ch)
		l.readChar()
	}

	if l.ch != '"' {
		return result.String(), false
	}
	l.readChar() // skip closing quote
	return result.String(), true
}

// readNumber reads a number: optional leading minus, optional integer part,
// optional fractional part, at least one digit.
func (l *Lexer) readNumber() string {
	var result strings.Builder

	if l.ch == '-' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	for unicode.IsDigit(l.ch) {
		result.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) {
		result.WriteRune(l.ch)
		l.readChar()
		for unicode.IsDigit(l.ch) {
			result.WriteRune(l.ch)
			l.readChar()
		}
	}
	return result.String()
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	var result strings.Builder
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// NextToken returns the next token. Illegal characters are reported and
// skipped; lexing resumes with the character after them.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		if l.ch == '-' && l.peekChar() == '-' {
			l.skipLineComment()
			continue
		}
		if l.ch == '{' && l.peekChar() == '-' {
			l.skipBlockComment()
			continue
		}

		line := l.line

		switch l.ch {
		case 0:
			return Token{Type: TokenEOF, Line: line}
		case '=':
			l.readChar()
			return Token{Type: TokenEquals, Value: "=", Line: line}
		case '<':
			if l.peekChar() == '>' {
				l.readChar()
				l.readChar()
				return Token{Type: TokenNotEquals, Value: "<>", Line: line}
			}
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return Token{Type: TokenLessEqual, Value: "<=", Line: line}
			}
			l.readChar()
			return Token{Type: TokenLess, Value: "<", Line: line}
		case '>':
			if l.peekChar() == '=' {
				l.readChar()
				l.readChar()
				return Token{Type: TokenGreaterEqual, Value: ">=", Line: line}
			}
			l.readChar()
			return Token{Type: TokenGreater, Value: ">", Line: line}
		case '"':
			// Snapshot the state at the quote: an unterminated literal
			// rewinds here, skips the lone quote, and the tail relexes as
			// ordinary tokens.
			quote := *l
			value, closed := l.readString()
			if !closed {
				*l = quote
				l.readChar()
				log.Warnf("illegal character '\"' at line %d, position %d: unterminated string", line, quote.pos-1)
				continue
			}
			return Token{Type: TokenString, Value: value, Line: line}
		case '*':
			l.readChar()
			return Token{Type: TokenStar, Value: "*", Line: line}
		case ',':
			l.readChar()
			return Token{Type: TokenComma, Value: ",", Line: line}
		case ';':
			l.readChar()
			return Token{Type: TokenSemicolon, Value: ";", Line: line}
		case '(':
			l.readChar()
			return Token{Type: TokenLeftParen, Value: "(", Line: line}
		case ')':
			l.readChar()
			return Token{Type: TokenRightParen, Value: ")", Line: line}
		}

		if unicode.IsDigit(l.ch) || l.ch == '.' || (l.ch == '-' && (unicode.IsDigit(l.peekChar()) || l.peekChar() == '.')) {
			pos := l.pos
			value := l.readNumber()
			if value == "" || value == "-" {
				// A bare dot or minus matched nothing numeric
				log.Warnf("illegal character %q at line %d, position %d", l.ch, line, pos-1)
				l.readChar()
				continue
			}
			return Token{Type: TokenNumber, Value: value, Line: line}
		}

		if unicode.IsLetter(l.ch) || l.ch == '_' {
			value := l.readIdentifier()
			if tokType, ok := keywords[value]; ok {
				return Token{Type: tokType, Value: value, Line: line}
			}
			return Token{Type: TokenIdent, Value: value, Line: line}
		}

		log.Warnf("illegal character %q at line %d, position %d", l.ch, line, l.pos-1)
		l.readChar()
	}
}

// Tokenize returns all tokens from the input, ending with an EOF token
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens
}
