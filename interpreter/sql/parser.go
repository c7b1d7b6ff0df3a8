package sql

import (
	"strings"

	"github.com/truora/minisql/types"
)

// DefaultMaxDepth bounds the nesting of parenthesized and negated expressions
const DefaultMaxDepth = 512

type statementRule struct {
	name string
	rule parser[Statement]
}

// Parser parses SQL statements. A Parser holds no per call state and is safe
// for concurrent use.
type Parser struct {
	maxDepth   int
	statements []statementRule
	expression parser[Expression]
}

// Option configures a Parser
type Option func(*Parser)

// WithMaxDepth sets the maximum expression nesting depth, n <= 0 disables the
// limit.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

// NewParser creates a new parser
func NewParser(opts ...Option) *Parser {
	expr := expressionRule()

	p := &Parser{
		maxDepth: DefaultMaxDepth,
		statements: []statementRule{
			{name: "CREATE TABLE", rule: thenSkip(createTableRule(), end())},
			{name: "INSERT", rule: thenSkip(insertRule(expr), end())},
			{name: "SELECT", rule: thenSkip(selectRule(expr), end())},
		},
		expression: thenSkip(padded(expr), end()),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

var defaultParser = NewParser()

// Parse parses a single statement terminated by ; with the default parser
func Parse(input string) (Statement, error) {
	return defaultParser.Parse(input)
}

// ParseExpression parses an expression spanning the whole input with the
// default parser
func ParseExpression(input string) (Expression, error) {
	return defaultParser.ParseExpression(input)
}

// Parse parses a single statement terminated by ;. The statement kinds are
// tried in order and the first one matching the whole input wins. When none
// matches, the returned error is positioned at the furthest failure and
// carries the failure of every kind.
func (p *Parser) Parse(input string) (Statement, error) {
	errs := make([]error, 0, len(p.statements))

	var furthest types.PositionError

	for _, s := range p.statements {
		c := newCursor(input, p.maxDepth)

		stmt, ok := s.rule(c)
		if ok {
			return stmt, nil
		}

		err := c.err()
		if c.fatal != nil {
			return nil, err
		}

		errs = append(errs, types.NewParseError(err.Position(), s.name+": "+err.Message(), nil))

		if furthest == nil || err.Position() > furthest.Position() {
			furthest = err
		}
	}

	return nil, types.NewParseError(furthest.Position(),
		"input did not match any statement ("+p.statementNames()+"): "+furthest.Message(), errs)
}

// ParseExpression parses an expression spanning the whole input
func (p *Parser) ParseExpression(input string) (Expression, error) {
	c := newCursor(input, p.maxDepth)

	expr, ok := p.expression(c)
	if !ok {
		return nil, c.err()
	}

	return expr, nil
}

func (p *Parser) statementNames() string {
	names := make([]string, 0, len(p.statements))
	for _, s := range p.statements {
		names = append(names, s.name)
	}

	return strings.Join(names, ", ")
}
