package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"github.com/truora/minisql/interpreter/sql"
	"github.com/truora/minisql/types"
)

func lowerSQL(t *testing.T, input string) (*Request, error) {
	t.Helper()

	stmt, err := sql.Parse(input)
	require.NoError(t, err)

	return Lower(stmt)
}

func TestLowerCreateTable(t *testing.T) {
	c := require.New(t)

	req, err := lowerSQL(t, "create table user(id string PRIMARY KEY,name string NOT NULL, age int32 NOT NULL, hobby string, talent string);")
	c.NoError(err)
	c.Equal(OperationCreateTable, req.Operation)
	c.Equal("DynamoDB_20120810.CreateTable", req.Target())
	c.Nil(req.PutItem)
	c.Nil(req.Scan)

	in := req.CreateTable
	c.Equal("user", aws.ToString(in.TableName))
	c.Equal(ddbtypes.BillingModePayPerRequest, in.BillingMode)
	c.Equal([]ddbtypes.KeySchemaElement{
		{AttributeName: aws.String("id"), KeyType: ddbtypes.KeyTypeHash},
	}, in.KeySchema)
	c.Equal([]ddbtypes.AttributeDefinition{
		{AttributeName: aws.String("id"), AttributeType: ddbtypes.ScalarAttributeTypeS},
	}, in.AttributeDefinitions)
}

func TestLowerCreateTableCompositeKey(t *testing.T) {
	c := require.New(t)

	req, err := lowerSQL(t, "CREATE TABLE orders (customer string PRIMARY KEY, created int64 NOT NULL PRIMARY KEY, total DOUBLE, payload blob);")
	c.NoError(err)

	in := req.CreateTable
	c.Equal([]ddbtypes.KeySchemaElement{
		{AttributeName: aws.String("customer"), KeyType: ddbtypes.KeyTypeHash},
		{AttributeName: aws.String("created"), KeyType: ddbtypes.KeyTypeRange},
	}, in.KeySchema)
	c.Equal([]ddbtypes.AttributeDefinition{
		{AttributeName: aws.String("customer"), AttributeType: ddbtypes.ScalarAttributeTypeS},
		{AttributeName: aws.String("created"), AttributeType: ddbtypes.ScalarAttributeTypeN},
	}, in.AttributeDefinitions)
}

func TestLowerCreateTableErrors(t *testing.T) {
	tests := map[string]string{
		"CREATE TABLE users (id string, name string);":                                     noHashKeyMsg,
		"CREATE TABLE users (a string PRIMARY KEY, b int PRIMARY KEY, c int PRIMARY KEY);": "at most a hash and a range",
		"CREATE TABLE users (id uuid PRIMARY KEY);":                                        "unsupported type uuid for column id",
		"CREATE TABLE users (id string PRIMARY KEY, id int);":                              "duplicate column id",
		"CREATE TABLE t (id string PRIMARY KEY);":                                          "TableName",
		"CREATE TABLE users ();":                                                           noHashKeyMsg,
	}

	for input, msg := range tests {
		req, err := lowerSQL(t, input)
		if err == nil {
			t.Fatalf("%q: expected error, got %v", input, req)
		}

		if !types.IsCode(err, types.ErrCodeValidation) {
			t.Errorf("%q: expected %s, got %v", input, types.ErrCodeValidation, err)
		}

		require.Contains(t, err.Error(), msg, input)
	}
}

func TestLowerInsert(t *testing.T) {
	c := require.New(t)

	req, err := lowerSQL(t, "INSERT INTO user (id, name, age, hobby, balance) VALUES ('1', 'linYuan', 3, 'play Game', -(-(-20)));")
	c.NoError(err)
	c.Equal(OperationPutItem, req.Operation)
	c.Equal("user", aws.ToString(req.PutItem.TableName))
	c.Equal(map[string]ddbtypes.AttributeValue{
		"id":      &ddbtypes.AttributeValueMemberS{Value: "1"},
		"name":    &ddbtypes.AttributeValueMemberS{Value: "linYuan"},
		"age":     &ddbtypes.AttributeValueMemberN{Value: "3"},
		"hobby":   &ddbtypes.AttributeValueMemberS{Value: "play Game"},
		"balance": &ddbtypes.AttributeValueMemberN{Value: "-20"},
	}, req.PutItem.Item)
}

func TestLowerInsertErrors(t *testing.T) {
	tests := map[string]string{
		"INSERT INTO users (id, name) VALUES ('1');":    "2 fields and 1 values given",
		"INSERT INTO users (id, id) VALUES ('1', '2');": "duplicate field id",
		"INSERT INTO users (id) VALUES (a + 1);":        "(a + 1) is not a constant",
		"INSERT INTO users (id) VALUES (-'x');":         "is not a constant",
		"INSERT INTO users () VALUES ();":               "at least one attribute",
		"INSERT INTO us (id) VALUES (1);":               "TableName",
	}

	for input, msg := range tests {
		req, err := lowerSQL(t, input)
		if err == nil {
			t.Fatalf("%q: expected error, got %v", input, req)
		}

		if !types.IsCode(err, types.ErrCodeValidation) {
			t.Errorf("%q: expected %s, got %v", input, types.ErrCodeValidation, err)
		}

		require.Contains(t, err.Error(), msg, input)
	}
}

func TestLowerSelect(t *testing.T) {
	c := require.New(t)

	req, err := lowerSQL(t, "SELECT name, age, hobby as like, talent, name FROM user WHERE age = 1;")
	c.NoError(err)
	c.Equal(OperationScan, req.Operation)

	in := req.Scan
	c.Equal("user", aws.ToString(in.TableName))
	c.Equal("#n0, #n1, #n2, #n3", aws.ToString(in.ProjectionExpression))
	c.Equal("#n1 = :v0", aws.ToString(in.FilterExpression))
	c.Equal(map[string]string{"#n0": "name", "#n1": "age", "#n2": "hobby", "#n3": "talent"}, in.ExpressionAttributeNames)
	c.Equal(map[string]ddbtypes.AttributeValue{
		":v0": &ddbtypes.AttributeValueMemberN{Value: "1"},
	}, in.ExpressionAttributeValues)
}

func TestLowerSelectFilters(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM users WHERE a = 1 AND b = 'x' or c == -2;": "#n0 = :v0 AND #n1 = :v1 OR #n2 = :v2",
		"SELECT * FROM users WHERE a = 1 b = 2;":                  "#n0 = :v0 AND #n1 = :v1",
		"SELECT * FROM users WHERE 'x' = a OR a = b;":             ":v0 = #n0 OR #n0 = #n1",
		"SELECT * FROM users;":                                    "",
	}

	for input, filter := range tests {
		req, err := lowerSQL(t, input)
		require.NoError(t, err, input)
		require.Nil(t, req.Scan.ProjectionExpression, input)
		require.Equal(t, filter, aws.ToString(req.Scan.FilterExpression), input)

		if filter == "" {
			require.Nil(t, req.Scan.FilterExpression, input)
			require.Nil(t, req.Scan.ExpressionAttributeNames, input)
			require.Nil(t, req.Scan.ExpressionAttributeValues, input)
		}
	}
}

func TestLowerSelectErrors(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM users WHERE a = 1 AND;": "AND must join two conditions",
		"SELECT * FROM users WHERE OR a = 1;":  "OR must join two conditions",
		"SELECT * FROM users WHERE a + 1 = 2;": "(a + 1) is not a constant",
		"SELECT * FROM users WHERE a;":         "unsupported condition a",
		"SELECT * FROM users WHERE a = b = 1;": "is not a constant",
		"SELECT * FROM users WHERE 1 = 1;":     "compares two constants",
		"SELECT * FROM ab;":                    "TableName",
	}

	for input, msg := range tests {
		req, err := lowerSQL(t, input)
		if err == nil {
			t.Fatalf("%q: expected error, got %v", input, req)
		}

		if !types.IsCode(err, types.ErrCodeValidation) {
			t.Errorf("%q: expected %s, got %v", input, types.ErrCodeValidation, err)
		}

		require.Contains(t, err.Error(), msg, input)
	}
}

func TestLowerUnsupportedStatement(t *testing.T) {
	_, err := Lower(nil)
	require.Error(t, err)
	require.True(t, types.IsCode(err, types.ErrCodeValidation))
}

func TestRequestValidateWithoutInput(t *testing.T) {
	err := (&Request{Operation: OperationScan}).Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "request has no Scan input")
}

func TestRequestString(t *testing.T) {
	c := require.New(t)

	req, err := lowerSQL(t, "SELECT name FROM users WHERE age = 30;")
	c.NoError(err)

	s := req.String()
	c.Contains(s, "Scan {")
	c.Contains(s, `TableName: "users"`)
	c.Contains(s, `FilterExpression: "#n1 = :v0"`)
}

func TestRequestMarshalJSON(t *testing.T) {
	c := require.New(t)

	req, err := lowerSQL(t, "CREATE TABLE users (id string PRIMARY KEY, age int);")
	c.NoError(err)

	body, err := req.MarshalJSON()
	c.NoError(err)
	c.JSONEq(`{
		"AttributeDefinitions": [{"AttributeName": "id", "AttributeType": "S"}],
		"BillingMode":          "PAY_PER_REQUEST",
		"KeySchema":            [{"AttributeName": "id", "KeyType": "HASH"}],
		"TableName":            "users"
	}`, string(body))

	req, err = lowerSQL(t, "SELECT name FROM users WHERE age = 30;")
	c.NoError(err)

	body, err = req.MarshalJSON()
	c.NoError(err)
	c.JSONEq(`{
		"ExpressionAttributeNames":  {"#n0": "name", "#n1": "age"},
		"ExpressionAttributeValues": {":v0": {"N": "30"}},
		"FilterExpression":          "#n1 = :v0",
		"ProjectionExpression":      "#n0",
		"TableName":                 "users"
	}`, string(body))
}
