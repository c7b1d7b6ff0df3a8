package interpreter

import (
	"fmt"
	"sync"

	"github.com/aws/smithy-go/logging"
	"github.com/truora/minisql/interpreter/sql"
)

// SQL interpreter
type SQL struct {
	Debug bool
	// MaxDepth bounds expression nesting, zero means sql.DefaultMaxDepth
	MaxDepth int
	// Logger receives the debug traces, nil discards them
	Logger logging.Logger

	once   sync.Once
	parser *sql.Parser
}

// Parse parses a single statement terminated by ;
func (si *SQL) Parse(input string) (sql.Statement, error) {
	stmt, err := si.getParser().Parse(input)
	if err != nil {
		si.debugf("parsing: %q\n$>%s", input, err)

		return nil, fmt.Errorf("%w: %w", ErrSyntaxError, err)
	}

	si.debugf("parsing: %q\n$>%s", input, stmt)

	return stmt, nil
}

// ParseExpression parses an expression spanning the whole input
func (si *SQL) ParseExpression(input string) (sql.Expression, error) {
	expr, err := si.getParser().ParseExpression(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntaxError, err)
	}

	si.debugf("parsing expression: %q\n$>%s", input, expr)

	return expr, nil
}

// Tokenize returns the tokens of the input
func (si *SQL) Tokenize(input string) ([]sql.Token, error) {
	tokens, err := sql.Tokenize(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntaxError, err)
	}

	si.debugf("tokenizing: %q\n$>%v", input, tokens)

	return tokens, nil
}

func (si *SQL) getParser() *sql.Parser {
	si.once.Do(func() {
		maxDepth := si.MaxDepth
		if maxDepth == 0 {
			maxDepth = sql.DefaultMaxDepth
		}

		si.parser = sql.NewParser(sql.WithMaxDepth(maxDepth))
	})

	return si.parser
}

func (si *SQL) debugf(format string, v ...interface{}) {
	if !si.Debug || si.Logger == nil {
		return
	}

	si.Logger.Logf(logging.Debug, format, v...)
}
