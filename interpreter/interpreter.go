package interpreter

import (
	"errors"

	"github.com/truora/minisql/interpreter/sql"
)

var (
	// ErrSyntaxError when a syntax error is detected
	ErrSyntaxError = errors.New("syntax error")
)

// Interpreter SQL statement interpreter interface
type Interpreter interface {
	Parse(input string) (sql.Statement, error)
	ParseExpression(input string) (sql.Expression, error)
	Tokenize(input string) ([]sql.Token, error)
}
