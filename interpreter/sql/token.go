package sql

import "fmt"

// TokenType represents the type of the token
type TokenType string

// Token represents a token of the SQL statement language
type Token struct {
	Type    TokenType
	Literal string
	// Pos is the byte offset of the first character of the token
	Pos int
}

const (
	// EOF end of the file(input)
	EOF TokenType = "EOF"

	// IDENT column, table or type name
	IDENT TokenType = "IDENT"
	// STRING quoted string literal, the quotes are not part of the literal
	STRING TokenType = "STRING"
	// NUMBER decimal integer literal
	NUMBER TokenType = "NUMBER"

	// LPAREN left parentheses delimiter
	LPAREN TokenType = "("
	// RPAREN right parentheses delimiter
	RPAREN TokenType = ")"
	// COMMA list delimiter
	COMMA TokenType = ","
	// SEMICOLON statement terminator
	SEMICOLON TokenType = ";"
	// EQ equality comparator
	EQ TokenType = "="

	// SELECT statement keyword
	SELECT TokenType = "SELECT"
	// FROM clause keyword
	FROM TokenType = "FROM"
	// WHERE clause keyword
	WHERE TokenType = "WHERE"
	// CREATE statement keyword
	CREATE TokenType = "CREATE"
	// TABLE object keyword
	TABLE TokenType = "TABLE"
	// AND logical connector
	AND TokenType = "AND"
	// OR logical connector
	OR TokenType = "OR"
)

// keywords maps the uppercase initial of every keyword to the keyword, the
// lexer commits to the keyword as soon as it reads the initial.
var keywords = map[byte]TokenType{
	'S': SELECT,
	'F': FROM,
	'W': WHERE,
	'C': CREATE,
	'T': TABLE,
	'A': AND,
	'O': OR,
}

var singleChar = map[byte]TokenType{
	'(': LPAREN,
	')': RPAREN,
	',': COMMA,
	';': SEMICOLON,
	'=': EQ,
}

// IsKeyword reports whether the token type is one of the statement keywords
func (t TokenType) IsKeyword() bool {
	switch t {
	case SELECT, FROM, WHERE, CREATE, TABLE, AND, OR:
		return true
	}

	return false
}

func (t Token) String() string {
	switch t.Type {
	case IDENT, STRING, NUMBER:
		return fmt.Sprintf("%s(%s)@%d", t.Type, t.Literal, t.Pos)
	}

	return fmt.Sprintf("%s@%d", t.Type, t.Pos)
}
