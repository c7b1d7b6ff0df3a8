package dynamo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awsv1 "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/private/protocol/json/jsonutil"
	dynamodbv1 "github.com/aws/aws-sdk-go/service/dynamodb"

	"github.com/truora/minisql/types"
)

// v1Input is the shape every aws-sdk-go input satisfies
type v1Input interface {
	Validate() error
	String() string
}

// Validate runs the SDK parameter validation of the request, the checks the
// SDK performs before sending it
func (r *Request) Validate() error {
	in, err := r.v1Input()
	if err != nil {
		return err
	}

	if err := in.Validate(); err != nil {
		return types.NewError(types.ErrCodeValidation,
			fmt.Sprintf("invalid %s request: %s", r.Operation, describeInvalidParams(err)), err)
	}

	return nil
}

// String returns the pretty printed request
func (r *Request) String() string {
	in, err := r.v1Input()
	if err != nil {
		return err.Error()
	}

	return string(r.Operation) + " " + in.String()
}

// MarshalJSON returns the request body as sent on the wire
func (r *Request) MarshalJSON() ([]byte, error) {
	in, err := r.v1Input()
	if err != nil {
		return nil, err
	}

	return jsonutil.BuildJSON(in)
}

func (r *Request) v1Input() (v1Input, error) {
	switch {
	case r.Operation == OperationCreateTable && r.CreateTable != nil:
		return mapCreateTableInput(r.CreateTable), nil
	case r.Operation == OperationPutItem && r.PutItem != nil:
		return mapPutItemInput(r.PutItem), nil
	case r.Operation == OperationScan && r.Scan != nil:
		return mapScanInput(r.Scan), nil
	}

	return nil, types.NewError(types.ErrCodeValidation, fmt.Sprintf("request has no %s input", r.Operation), nil)
}

func describeInvalidParams(err error) string {
	var batch awserr.BatchedErrors
	if !errors.As(err, &batch) {
		return err.Error()
	}

	msgs := make([]string, 0, len(batch.OrigErrs()))

	for _, origErr := range batch.OrigErrs() {
		var awsErr awserr.Error
		if errors.As(origErr, &awsErr) {
			msgs = append(msgs, awsErr.Message())

			continue
		}

		msgs = append(msgs, origErr.Error())
	}

	return strings.Join(msgs, "; ")
}

func mapCreateTableInput(input *dynamodb.CreateTableInput) *dynamodbv1.CreateTableInput {
	output := &dynamodbv1.CreateTableInput{
		TableName:            input.TableName,
		KeySchema:            mapKeySchema(input.KeySchema),
		AttributeDefinitions: mapAttributeDefinitions(input.AttributeDefinitions),
	}

	if input.BillingMode != "" {
		output.BillingMode = awsv1.String(string(input.BillingMode))
	}

	return output
}

func mapKeySchema(input []ddbtypes.KeySchemaElement) []*dynamodbv1.KeySchemaElement {
	output := make([]*dynamodbv1.KeySchemaElement, 0, len(input))

	for _, element := range input {
		output = append(output, &dynamodbv1.KeySchemaElement{
			AttributeName: element.AttributeName,
			KeyType:       awsv1.String(string(element.KeyType)),
		})
	}

	return output
}

func mapAttributeDefinitions(input []ddbtypes.AttributeDefinition) []*dynamodbv1.AttributeDefinition {
	output := make([]*dynamodbv1.AttributeDefinition, 0, len(input))

	for _, definition := range input {
		output = append(output, &dynamodbv1.AttributeDefinition{
			AttributeName: definition.AttributeName,
			AttributeType: awsv1.String(string(definition.AttributeType)),
		})
	}

	return output
}

func mapPutItemInput(input *dynamodb.PutItemInput) *dynamodbv1.PutItemInput {
	return &dynamodbv1.PutItemInput{
		TableName: input.TableName,
		Item:      mapAttributeValueMap(input.Item),
	}
}

func mapScanInput(input *dynamodb.ScanInput) *dynamodbv1.ScanInput {
	output := &dynamodbv1.ScanInput{
		TableName:            input.TableName,
		ProjectionExpression: input.ProjectionExpression,
		FilterExpression:     input.FilterExpression,
	}

	if len(input.ExpressionAttributeNames) > 0 {
		output.ExpressionAttributeNames = awsv1.StringMap(input.ExpressionAttributeNames)
	}

	if len(input.ExpressionAttributeValues) > 0 {
		output.ExpressionAttributeValues = mapAttributeValueMap(input.ExpressionAttributeValues)
	}

	return output
}

func mapAttributeValueMap(input map[string]ddbtypes.AttributeValue) map[string]*dynamodbv1.AttributeValue {
	if input == nil {
		return nil
	}

	output := make(map[string]*dynamodbv1.AttributeValue, len(input))
	for k, v := range input {
		output[k] = mapAttributeValue(v)
	}

	return output
}

func mapAttributeValueList(input []ddbtypes.AttributeValue) []*dynamodbv1.AttributeValue {
	output := make([]*dynamodbv1.AttributeValue, len(input))
	for i, v := range input {
		output[i] = mapAttributeValue(v)
	}

	return output
}

func mapAttributeValue(item ddbtypes.AttributeValue) *dynamodbv1.AttributeValue {
	switch v := item.(type) {
	case *ddbtypes.AttributeValueMemberS:
		return &dynamodbv1.AttributeValue{S: awsv1.String(v.Value)}
	case *ddbtypes.AttributeValueMemberN:
		return &dynamodbv1.AttributeValue{N: awsv1.String(v.Value)}
	case *ddbtypes.AttributeValueMemberB:
		return &dynamodbv1.AttributeValue{B: v.Value}
	case *ddbtypes.AttributeValueMemberBOOL:
		return &dynamodbv1.AttributeValue{BOOL: awsv1.Bool(v.Value)}
	case *ddbtypes.AttributeValueMemberNULL:
		return &dynamodbv1.AttributeValue{NULL: awsv1.Bool(v.Value)}
	case *ddbtypes.AttributeValueMemberSS:
		return &dynamodbv1.AttributeValue{SS: awsv1.StringSlice(v.Value)}
	case *ddbtypes.AttributeValueMemberNS:
		return &dynamodbv1.AttributeValue{NS: awsv1.StringSlice(v.Value)}
	case *ddbtypes.AttributeValueMemberBS:
		return &dynamodbv1.AttributeValue{BS: v.Value}
	case *ddbtypes.AttributeValueMemberL:
		return &dynamodbv1.AttributeValue{L: mapAttributeValueList(v.Value)}
	case *ddbtypes.AttributeValueMemberM:
		return &dynamodbv1.AttributeValue{M: mapAttributeValueMap(v.Value)}
	}

	return nil
}
