package server

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/truora/minisql/types"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{
			err:      types.NewParseError(7, "unexpected \"TALBE\"\nexpected TABLE", nil),
			expected: "ERR ParseError at offset 7: unexpected \"TALBE\" expected TABLE\n",
		},
		{
			err:      fmt.Errorf("%w: %w", errors.New("syntax error"), types.NewLexError(3, "unexpected character '*'")),
			expected: "ERR LexError at offset 3: unexpected character '*'\n",
		},
		{
			err:      types.NewError(types.ErrCodeValidation, "duplicate field id", nil),
			expected: "ERR ValidationException: duplicate field id\n",
		},
		{
			err:      errors.New("boom"),
			expected: "ERR InternalFailure: boom\n",
		},
	}

	for _, test := range tests {
		require.Equal(t, test.expected, FormatError(test.err))
	}
}

func TestParseReply(t *testing.T) {
	tests := map[string]Reply{
		"OK SELECT a FROM t;\n":                        {OK: true, Statement: "SELECT a FROM t;", Offset: -1},
		"ERR ParseError at offset 7: unexpected x\r\n": {Code: "ParseError", Offset: 7, Message: "unexpected x"},
		"ERR StatementTooLarge: too big: really\n":     {Code: "StatementTooLarge", Offset: -1, Message: "too big: really"},
	}

	for line, expected := range tests {
		reply, err := ParseReply(line)
		require.NoError(t, err, line)
		require.Equal(t, expected, reply, line)
	}

	for _, line := range []string{"", "HELLO\n", "ERR nothing\n", "ERR ParseError at offset x: y\n"} {
		_, err := ParseReply(line)
		require.Error(t, err, line)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	reply, err := ParseReply(FormatOK("INSERT INTO t (a) VALUES ('two\nlines');"))
	require.NoError(t, err)
	require.True(t, reply.OK)
	require.Equal(t, "INSERT INTO t (a) VALUES ('two lines');", reply.Statement)

	reply, err = ParseReply(FormatError(types.NewParseError(12, "bad: worse", nil)))
	require.NoError(t, err)
	require.Equal(t, Reply{Code: "ParseError", Offset: 12, Message: "bad: worse"}, reply)
}
