// Package dynamo lowers parsed SQL statements into the equivalent Amazon
// DynamoDB requests. CREATE TABLE becomes CreateTable, INSERT becomes PutItem
// and SELECT becomes Scan. Requests are built and validated, never sent.
package dynamo

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/truora/minisql/interpreter/sql"
	"github.com/truora/minisql/types"
)

// Operation is the DynamoDB operation of a lowered request
type Operation string

const (
	// OperationCreateTable lowered CREATE TABLE
	OperationCreateTable Operation = "CreateTable"
	// OperationPutItem lowered INSERT
	OperationPutItem Operation = "PutItem"
	// OperationScan lowered SELECT
	OperationScan Operation = "Scan"

	targetPrefix = "DynamoDB_20120810."

	noHashKeyMsg = "No Hash Key specified in schema. All Dynamo DB Tables must have exactly one hash key"
)

var attributeTypes = map[string]ddbtypes.ScalarAttributeType{
	"string":  ddbtypes.ScalarAttributeTypeS,
	"text":    ddbtypes.ScalarAttributeTypeS,
	"varchar": ddbtypes.ScalarAttributeTypeS,
	"char":    ddbtypes.ScalarAttributeTypeS,

	"int":     ddbtypes.ScalarAttributeTypeN,
	"int8":    ddbtypes.ScalarAttributeTypeN,
	"int16":   ddbtypes.ScalarAttributeTypeN,
	"int32":   ddbtypes.ScalarAttributeTypeN,
	"int64":   ddbtypes.ScalarAttributeTypeN,
	"integer": ddbtypes.ScalarAttributeTypeN,
	"bigint":  ddbtypes.ScalarAttributeTypeN,
	"float":   ddbtypes.ScalarAttributeTypeN,
	"float32": ddbtypes.ScalarAttributeTypeN,
	"float64": ddbtypes.ScalarAttributeTypeN,
	"double":  ddbtypes.ScalarAttributeTypeN,
	"decimal": ddbtypes.ScalarAttributeTypeN,
	"number":  ddbtypes.ScalarAttributeTypeN,

	"blob":   ddbtypes.ScalarAttributeTypeB,
	"binary": ddbtypes.ScalarAttributeTypeB,
	"bytes":  ddbtypes.ScalarAttributeTypeB,
}

// Request is a lowered statement. Exactly one of the inputs is set, the one
// matching Operation.
type Request struct {
	Operation   Operation
	CreateTable *dynamodb.CreateTableInput
	PutItem     *dynamodb.PutItemInput
	Scan        *dynamodb.ScanInput
}

// Target returns the X-Amz-Target header value of the request
func (r *Request) Target() string {
	return targetPrefix + string(r.Operation)
}

// Lower translates the statement into its DynamoDB request
func Lower(stmt sql.Statement) (*Request, error) {
	var (
		req *Request
		err error
	)

	switch s := stmt.(type) {
	case *sql.CreateTableStatement:
		req, err = lowerCreateTable(s)
	case *sql.InsertStatement:
		req, err = lowerInsert(s)
	case *sql.SelectStatement:
		req, err = lowerSelect(s)
	default:
		return nil, types.NewError(types.ErrCodeValidation, fmt.Sprintf("unsupported statement %T", stmt), nil)
	}

	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	return req, nil
}

func lowerCreateTable(stmt *sql.CreateTableStatement) (*Request, error) {
	keySchema := []ddbtypes.KeySchemaElement{}
	definitions := []ddbtypes.AttributeDefinition{}
	seen := map[string]bool{}

	for _, col := range stmt.Columns {
		if seen[col.Name] {
			return nil, validationError("duplicate column %s", col.Name)
		}

		seen[col.Name] = true

		attrType, ok := attributeTypes[strings.ToLower(col.Type)]
		if !ok {
			return nil, validationError("unsupported type %s for column %s", col.Type, col.Name)
		}

		if !col.PrimaryKey {
			continue
		}

		keyType := ddbtypes.KeyTypeHash
		if len(keySchema) > 0 {
			keyType = ddbtypes.KeyTypeRange
		}

		keySchema = append(keySchema, ddbtypes.KeySchemaElement{
			AttributeName: aws.String(col.Name),
			KeyType:       keyType,
		})
		definitions = append(definitions, ddbtypes.AttributeDefinition{
			AttributeName: aws.String(col.Name),
			AttributeType: attrType,
		})
	}

	switch {
	case len(keySchema) == 0:
		return nil, types.NewError(types.ErrCodeValidation, noHashKeyMsg, nil)
	case len(keySchema) > 2:
		return nil, validationError("a table key has at most a hash and a range attribute, got %d primary key columns", len(keySchema))
	}

	return &Request{
		Operation: OperationCreateTable,
		CreateTable: &dynamodb.CreateTableInput{
			TableName:            aws.String(stmt.TableName),
			KeySchema:            keySchema,
			AttributeDefinitions: definitions,
			BillingMode:          ddbtypes.BillingModePayPerRequest,
		},
	}, nil
}

func lowerInsert(stmt *sql.InsertStatement) (*Request, error) {
	if len(stmt.FieldNames) != len(stmt.Values) {
		return nil, validationError("%d fields and %d values given", len(stmt.FieldNames), len(stmt.Values))
	}

	if len(stmt.FieldNames) == 0 {
		return nil, validationError("an item needs at least one attribute")
	}

	item := make(map[string]ddbtypes.AttributeValue, len(stmt.FieldNames))

	for i, field := range stmt.FieldNames {
		if _, ok := item[field]; ok {
			return nil, validationError("duplicate field %s", field)
		}

		av, err := marshalConstant(stmt.Values[i])
		if err != nil {
			return nil, err
		}

		item[field] = av
	}

	return &Request{
		Operation: OperationPutItem,
		PutItem: &dynamodb.PutItemInput{
			TableName: aws.String(stmt.TableName),
			Item:      item,
		},
	}, nil
}

func lowerSelect(stmt *sql.SelectStatement) (*Request, error) {
	b := newExpressionBuilder()

	input := &dynamodb.ScanInput{
		TableName: aws.String(stmt.TableName),
	}

	if projection := b.projection(stmt.Selectors); projection != "" {
		input.ProjectionExpression = aws.String(projection)
	}

	filter, err := b.filter(stmt.Where)
	if err != nil {
		return nil, err
	}

	if filter != "" {
		input.FilterExpression = aws.String(filter)
	}

	input.ExpressionAttributeNames = b.attributeNames()
	input.ExpressionAttributeValues = b.attributeValues()

	return &Request{Operation: OperationScan, Scan: input}, nil
}

// constant evaluates literals and negated numbers.
func constant(expr sql.Expression) (interface{}, bool) {
	switch e := expr.(type) {
	case *sql.NumberLiteral:
		return e.Value, true
	case *sql.StringLiteral:
		return e.Value, true
	case *sql.PrefixExpression:
		if e.Operator != sql.OpNeg {
			return nil, false
		}

		v, ok := constant(e.Right)
		if n, isNumber := v.(int64); ok && isNumber {
			return -n, true
		}
	}

	return nil, false
}

func marshalConstant(expr sql.Expression) (ddbtypes.AttributeValue, error) {
	v, ok := constant(expr)
	if !ok {
		return nil, validationError("%s is not a constant", expr)
	}

	av, err := attributevalue.Marshal(v)
	if err != nil {
		return nil, types.NewError(types.ErrCodeValidation, fmt.Sprintf("cannot marshal %s", expr), err)
	}

	return av, nil
}

func validationError(format string, v ...interface{}) error {
	return types.NewError(types.ErrCodeValidation, fmt.Sprintf(format, v...), nil)
}
