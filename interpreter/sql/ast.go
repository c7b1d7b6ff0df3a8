package sql

import (
	"bytes"
	"strconv"
	"strings"
)

// Node the AST node type
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement represents the node type statement
type Statement interface {
	Node
	statementNode()
}

// Expression represents the node type expression
type Expression interface {
	Node
	expressionNode()
}

// Operator is the operator of a prefix or infix expression
type Operator string

const (
	// OpNeg arithmetic negation
	OpNeg Operator = "-"
	// OpAdd addition
	OpAdd Operator = "+"
	// OpSub subtraction
	OpSub Operator = "-"
	// OpMul multiplication
	OpMul Operator = "*"
	// OpDiv division
	OpDiv Operator = "/"
	// OpEqual equality comparison
	OpEqual Operator = "="
)

// NumberLiteral integer literal expression node
type NumberLiteral struct {
	Value int64
}

func (nl *NumberLiteral) expressionNode() {}

// TokenLiteral returns the literal token of the node
func (nl *NumberLiteral) TokenLiteral() string { return nl.String() }

func (nl *NumberLiteral) String() string { return strconv.FormatInt(nl.Value, 10) }

// Identifier identifier expression node
type Identifier struct {
	Value string
}

func (i *Identifier) expressionNode() {}

// TokenLiteral returns the literal token of the node
func (i *Identifier) TokenLiteral() string { return i.Value }

func (i *Identifier) String() string { return i.Value }

// StringLiteral quoted string expression node, Value excludes the quotes
type StringLiteral struct {
	Value string
}

func (sl *StringLiteral) expressionNode() {}

// TokenLiteral returns the literal token of the node
func (sl *StringLiteral) TokenLiteral() string { return sl.Value }

func (sl *StringLiteral) String() string {
	if strings.Contains(sl.Value, "'") {
		return `"` + sl.Value + `"`
	}

	return "'" + sl.Value + "'"
}

// PrefixExpression prefix operator expression
type PrefixExpression struct {
	Operator Operator
	Right    Expression
}

func (pe *PrefixExpression) expressionNode() {}

// TokenLiteral returns the literal token of the node
func (pe *PrefixExpression) TokenLiteral() string { return string(pe.Operator) }

func (pe *PrefixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(string(pe.Operator))
	out.WriteString(pe.Right.String())
	out.WriteString(")")

	return out.String()
}

// InfixExpression infix operator expression
type InfixExpression struct {
	Left     Expression
	Operator Operator
	Right    Expression
}

func (ie *InfixExpression) expressionNode() {}

// TokenLiteral returns the literal token of the node
func (ie *InfixExpression) TokenLiteral() string { return string(ie.Operator) }

func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + string(ie.Operator) + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}

// Num builds a number literal
func Num(n int64) Expression { return &NumberLiteral{Value: n} }

// Var builds an identifier
func Var(name string) Expression { return &Identifier{Value: name} }

// Str builds a string literal
func Str(s string) Expression { return &StringLiteral{Value: s} }

// Neg builds the negation of right
func Neg(right Expression) Expression {
	return &PrefixExpression{Operator: OpNeg, Right: right}
}

// Add builds left + right
func Add(left, right Expression) Expression { return infix(OpAdd, left, right) }

// Sub builds left - right
func Sub(left, right Expression) Expression { return infix(OpSub, left, right) }

// Mul builds left * right
func Mul(left, right Expression) Expression { return infix(OpMul, left, right) }

// Div builds left / right
func Div(left, right Expression) Expression { return infix(OpDiv, left, right) }

// Equal builds left = right
func Equal(left, right Expression) Expression { return infix(OpEqual, left, right) }

func infix(op Operator, left, right Expression) Expression {
	return &InfixExpression{Left: left, Operator: op, Right: right}
}

// Column is a column definition of a CREATE TABLE statement
type Column struct {
	Name          string
	Type          string
	NotNull       bool
	AutoIncrement bool
	PrimaryKey    bool
}

func (c Column) String() string {
	var out bytes.Buffer

	out.WriteString(c.Name + " " + c.Type)

	if c.NotNull {
		out.WriteString(" NOT NULL")
	}

	if c.AutoIncrement {
		out.WriteString(" AUTO_INCREMENT")
	}

	if c.PrimaryKey {
		out.WriteString(" PRIMARY KEY")
	}

	return out.String()
}

// Selector is a projected column of a SELECT statement, Alias is empty when
// the column is not renamed
type Selector struct {
	Column string
	Alias  string
}

func (s Selector) String() string {
	if s.Alias == "" {
		return s.Column
	}

	return s.Column + " AS " + s.Alias
}

// CreateTableStatement CREATE TABLE statement node
type CreateTableStatement struct {
	TableName string
	Columns   []Column
}

func (cs *CreateTableStatement) statementNode() {}

// TokenLiteral returns the literal token of the node
func (cs *CreateTableStatement) TokenLiteral() string { return string(CREATE) }

func (cs *CreateTableStatement) String() string {
	columns := make([]string, 0, len(cs.Columns))
	for _, c := range cs.Columns {
		columns = append(columns, c.String())
	}

	var out bytes.Buffer

	out.WriteString("CREATE TABLE ")
	out.WriteString(cs.TableName)
	out.WriteString(" (")
	out.WriteString(strings.Join(columns, ", "))
	out.WriteString(");")

	return out.String()
}

// InsertStatement INSERT INTO statement node
type InsertStatement struct {
	TableName  string
	FieldNames []string
	Values     []Expression
}

func (is *InsertStatement) statementNode() {}

// TokenLiteral returns the literal token of the node
func (is *InsertStatement) TokenLiteral() string { return "INSERT" }

func (is *InsertStatement) String() string {
	var out bytes.Buffer

	out.WriteString("INSERT INTO ")
	out.WriteString(is.TableName)
	out.WriteString(" (")
	out.WriteString(strings.Join(is.FieldNames, ", "))
	out.WriteString(") VALUES (")
	out.WriteString(joinExpressions(is.Values, ", "))
	out.WriteString(");")

	return out.String()
}

// SelectStatement SELECT statement node. A nil Where means the statement has
// no WHERE clause.
type SelectStatement struct {
	TableName string
	Selectors []Selector
	Where     []Expression
}

func (ss *SelectStatement) statementNode() {}

// TokenLiteral returns the literal token of the node
func (ss *SelectStatement) TokenLiteral() string { return string(SELECT) }

func (ss *SelectStatement) String() string {
	selectors := make([]string, 0, len(ss.Selectors))
	for _, s := range ss.Selectors {
		selectors = append(selectors, s.String())
	}

	var out bytes.Buffer

	out.WriteString("SELECT ")
	out.WriteString(strings.Join(selectors, ", "))
	out.WriteString(" FROM ")
	out.WriteString(ss.TableName)

	if ss.Where != nil {
		out.WriteString(" WHERE ")
		out.WriteString(joinExpressions(ss.Where, " "))
	}

	out.WriteString(";")

	return out.String()
}

func joinExpressions(exprs []Expression, sep string) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, e.String())
	}

	return strings.Join(parts, sep)
}
