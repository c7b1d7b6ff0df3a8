package sql

import (
	"testing"

	"github.com/truora/minisql/types"
)

type testCase struct {
	expectedType    TokenType
	expectedLiteral string
}

func TestNextToken(t *testing.T) {
	table := map[string][]testCase{
		`v1`: {
			{IDENT, "v1"},
		},
		`SELECT age, hobby FROM student WHERE name = "tom" AND age = 10`: {
			{SELECT, "SELECT"},
			{IDENT, "age"},
			{COMMA, ","},
			{IDENT, "hobby"},
			{FROM, "FROM"},
			{IDENT, "student"},
			{WHERE, "WHERE"},
			{IDENT, "name"},
			{EQ, "="},
			{STRING, "tom"},
			{AND, "AND"},
			{IDENT, "age"},
			{EQ, "="},
			{NUMBER, "10"},
		},
		`CREATE TABLE user(id string);`: {
			{CREATE, "CREATE"},
			{TABLE, "TABLE"},
			{IDENT, "user"},
			{LPAREN, "("},
			{IDENT, "id"},
			{IDENT, "string"},
			{RPAREN, ")"},
			{SEMICOLON, ";"},
		},
		"a\t=\r\n'it\"s'\v\f": {
			{IDENT, "a"},
			{EQ, "="},
			{STRING, `it"s`},
		},
		`select from where`: {
			{IDENT, "select"},
			{IDENT, "from"},
			{IDENT, "where"},
		},
		`007 10 _x9`: {
			{NUMBER, "0"},
			{NUMBER, "0"},
			{NUMBER, "7"},
			{NUMBER, "10"},
			{IDENT, "_x9"},
		},
		`ANDY OR`: {
			{AND, "AND"},
			{IDENT, "Y"},
			{OR, "OR"},
		},
		`''`: {
			{STRING, ""},
		},
		``: {},
	}

	for input, tests := range table {
		l := NewLexer(input)

		for i, tt := range tests {
			tok, err := l.NextToken()
			if err != nil {
				t.Fatalf("%q: tests[%d] - unexpected error %v", input, i, err)
			}

			if tok.Type != tt.expectedType {
				t.Fatalf("%q: tests[%d] - tokentype wrong. expected=%q, got=%q",
					input, i, tt.expectedType, tok.Type)
			}

			if tok.Literal != tt.expectedLiteral {
				t.Fatalf("%q: tests[%d] - literal wrong. expected=%q, got=%q",
					input, i, tt.expectedLiteral, tok.Literal)
			}
		}

		tok, err := l.NextToken()
		if err != nil || tok.Type != EOF {
			t.Fatalf("%q: expected EOF, got=%v err=%v", input, tok, err)
		}
	}
}

func TestNextTokenPositions(t *testing.T) {
	tokens, err := Tokenize("  SELECT a,\n'b' ;")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	expected := []int{2, 9, 10, 12, 16}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}

	for i, pos := range expected {
		if tokens[i].Pos != pos {
			t.Errorf("tokens[%d] %v - expected position %d", i, tokens[i], pos)
		}
	}
}

func TestNextTokenErrors(t *testing.T) {
	table := map[string]int{
		`SEL`:          3,
		`SELCT`:        3,
		`Select`:       1,
		`Tom`:          1,
		`a = 'tom`:     4,
		`a = "tom'`:    4,
		`a + b`:        2,
		`age >= 10`:    4,
		"a = 1 \x00":   6,
		`WHERE x = "y`: 10,
		`a = O`:        5,
		`CREATE TALBE`: 9,
	}

	for input, pos := range table {
		_, err := Tokenize(input)
		if err == nil {
			t.Fatalf("%q: expected error", input)
		}

		lexErr, ok := err.(types.PositionError)
		if !ok {
			t.Fatalf("%q: expected positioned error, got %T", input, err)
		}

		if lexErr.Code() != types.ErrCodeLex {
			t.Errorf("%q: expected code %s, got %s", input, types.ErrCodeLex, lexErr.Code())
		}

		if lexErr.Position() != pos {
			t.Errorf("%q: expected position %d, got %d (%s)", input, pos, lexErr.Position(), lexErr.Message())
		}
	}
}

func TestNextTokenErrorKeepsCursor(t *testing.T) {
	l := NewLexer("a SELx")

	if tok, err := l.NextToken(); err != nil || tok.Literal != "a" {
		t.Fatalf("unexpected first token %v %v", tok, err)
	}

	for i := 0; i < 2; i++ {
		_, err := l.NextToken()
		if err == nil {
			t.Fatalf("expected error")
		}

		if err.(types.PositionError).Position() != 5 {
			t.Fatalf("expected the same failure on retry, got %v", err)
		}
	}
}

func TestPeek(t *testing.T) {
	l := NewLexer("SELECT a FROM t;")

	tok, err := l.Peek(0)
	if err != nil || tok.Type != EOF {
		t.Fatalf("Peek(0) expected EOF, got %v %v", tok, err)
	}

	tok, err = l.Peek(3)
	if err != nil || tok.Type != FROM {
		t.Fatalf("Peek(3) expected FROM, got %v %v", tok, err)
	}

	tok, err = l.Peek(42)
	if err != nil || tok.Type != EOF {
		t.Fatalf("Peek(42) expected EOF, got %v %v", tok, err)
	}

	tok, err = l.NextToken()
	if err != nil || tok.Type != SELECT {
		t.Fatalf("Peek moved the cursor, got %v %v", tok, err)
	}

	tok, err = l.Peek(1)
	if err != nil || tok.Type != IDENT || tok.Literal != "a" {
		t.Fatalf("Peek(1) expected IDENT a, got %v %v", tok, err)
	}
}

func TestPeekError(t *testing.T) {
	l := NewLexer("a 'open")

	if _, err := l.Peek(2); err == nil {
		t.Fatalf("expected error")
	}

	tok, err := l.NextToken()
	if err != nil || tok.Literal != "a" {
		t.Fatalf("failed Peek moved the cursor, got %v %v", tok, err)
	}
}

func BenchmarkLexer(b *testing.B) {
	input := `SELECT name, age, hobby, talent FROM user WHERE age = 1 AND name = "tom";`

	b.ReportAllocs()

	for n := 0; n < b.N; n++ {
		if _, err := Tokenize(input); err != nil {
			b.Fatal(err)
		}
	}
}
