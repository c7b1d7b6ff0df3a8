package dynamo

import (
	"fmt"
	"strings"

	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/truora/minisql/interpreter/sql"
)

// expressionBuilder renders projection and filter expressions. Every attribute
// name goes through a #n placeholder, so reserved words are safe, and every
// constant through a :v placeholder.
type expressionBuilder struct {
	names  map[string]string
	values map[string]ddbtypes.AttributeValue
}

func newExpressionBuilder() *expressionBuilder {
	return &expressionBuilder{
		names:  map[string]string{},
		values: map[string]ddbtypes.AttributeValue{},
	}
}

func (b *expressionBuilder) name(attr string) string {
	if placeholder, ok := b.names[attr]; ok {
		return placeholder
	}

	placeholder := fmt.Sprintf("#n%d", len(b.names))
	b.names[attr] = placeholder

	return placeholder
}

func (b *expressionBuilder) value(av ddbtypes.AttributeValue) string {
	placeholder := fmt.Sprintf(":v%d", len(b.values))
	b.values[placeholder] = av

	return placeholder
}

// attributeNames returns nil when no name was used, the API rejects empty maps.
func (b *expressionBuilder) attributeNames() map[string]string {
	if len(b.names) == 0 {
		return nil
	}

	names := make(map[string]string, len(b.names))
	for attr, placeholder := range b.names {
		names[placeholder] = attr
	}

	return names
}

func (b *expressionBuilder) attributeValues() map[string]ddbtypes.AttributeValue {
	if len(b.values) == 0 {
		return nil
	}

	return b.values
}

// projection returns an empty expression when every attribute is selected.
// Aliases have no DynamoDB counterpart and are dropped.
func (b *expressionBuilder) projection(selectors []sql.Selector) string {
	for _, s := range selectors {
		if s.Column == "*" {
			return ""
		}
	}

	parts := make([]string, 0, len(selectors))
	seen := map[string]bool{}

	for _, s := range selectors {
		if seen[s.Column] {
			continue
		}

		seen[s.Column] = true

		parts = append(parts, b.name(s.Column))
	}

	return strings.Join(parts, ", ")
}

// filter joins the WHERE conditions. AND and OR identifiers between the
// conditions are kept as connectors, adjacent conditions are joined with AND.
func (b *expressionBuilder) filter(where []sql.Expression) (string, error) {
	parts := []string{}
	expectCondition := true

	for _, expr := range where {
		if conn, ok := connector(expr); ok {
			if expectCondition {
				return "", validationError("%s must join two conditions", conn)
			}

			parts = append(parts, conn)
			expectCondition = true

			continue
		}

		if !expectCondition {
			parts = append(parts, "AND")
		}

		cond, err := b.condition(expr)
		if err != nil {
			return "", err
		}

		parts = append(parts, cond)
		expectCondition = false
	}

	if expectCondition && len(parts) > 0 {
		return "", validationError("%s must join two conditions", parts[len(parts)-1])
	}

	return strings.Join(parts, " "), nil
}

func connector(expr sql.Expression) (string, bool) {
	ident, ok := expr.(*sql.Identifier)
	if !ok {
		return "", false
	}

	switch conn := strings.ToUpper(ident.Value); conn {
	case "AND", "OR":
		return conn, true
	}

	return "", false
}

func (b *expressionBuilder) condition(expr sql.Expression) (string, error) {
	eq, ok := expr.(*sql.InfixExpression)
	if !ok || eq.Operator != sql.OpEqual {
		return "", validationError("unsupported condition %s, only equality comparisons can be lowered", expr)
	}

	left, leftConstant, err := b.operand(eq.Left)
	if err != nil {
		return "", err
	}

	right, rightConstant, err := b.operand(eq.Right)
	if err != nil {
		return "", err
	}

	if leftConstant && rightConstant {
		return "", validationError("condition %s compares two constants", expr)
	}

	return left + " = " + right, nil
}

func (b *expressionBuilder) operand(expr sql.Expression) (string, bool, error) {
	if ident, ok := expr.(*sql.Identifier); ok {
		return b.name(ident.Value), false, nil
	}

	av, err := marshalConstant(expr)
	if err != nil {
		return "", false, err
	}

	return b.value(av), true, nil
}
