package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/truora/minisql/server"
)

type fakeServer struct {
	received []string
	replies  map[string]server.Reply
	err      error
}

func (f *fakeServer) exec(_ context.Context, statement string) (server.Reply, error) {
	f.received = append(f.received, statement)

	if f.err != nil {
		return server.Reply{}, f.err
	}

	return f.replies[statement], nil
}

func TestREPLAccumulatesStatements(t *testing.T) {
	c := require.New(t)

	srv := &fakeServer{replies: map[string]server.Reply{
		"SELECT a\nFROM t;": {OK: true, Statement: "SELECT a FROM t;", Offset: -1},
		"CREATE TALBE x();": {Code: "ParseError", Offset: 7, Message: `unexpected "TALBE", expected TABLE`},
	}}

	in := strings.NewReader("SELECT a\nFROM t; CREATE TALBE x();\n\nq\nSELECT b FROM t;\n")

	var out bytes.Buffer

	c.NoError(repl(context.Background(), in, &out, srv.exec))
	c.Equal([]string{"SELECT a\nFROM t;", "CREATE TALBE x();"}, srv.received)

	text := out.String()
	c.Contains(text, "OK")
	c.Contains(text, "SELECT a FROM t;")
	c.Contains(text, "ParseError")
	c.Contains(text, "at offset 7")
	c.Contains(text, `unexpected "TALBE", expected TABLE`)
	c.Contains(text, continuation)
}

func TestREPLQuitOnlyBetweenStatements(t *testing.T) {
	srv := &fakeServer{replies: map[string]server.Reply{}}

	in := strings.NewReader("SELECT\nq\nFROM t;\nq\n")

	require.NoError(t, repl(context.Background(), in, &bytes.Buffer{}, srv.exec))
	require.Equal(t, []string{"SELECT\nq\nFROM t;"}, srv.received)
}

func TestREPLStopsOnConnectionError(t *testing.T) {
	errBroken := errors.New("broken pipe")
	srv := &fakeServer{err: errBroken}

	err := repl(context.Background(), strings.NewReader("SELECT a FROM t;\nSELECT b FROM t;\n"), &bytes.Buffer{}, srv.exec)
	require.ErrorIs(t, err, errBroken)
	require.Len(t, srv.received, 1)
}

func TestRenderReply(t *testing.T) {
	require.Contains(t, renderReply(server.Reply{OK: true, Statement: "SELECT a FROM t;", Offset: -1}), "SELECT a FROM t;")

	rendered := renderReply(server.Reply{Code: "StatementTooLarge", Offset: -1, Message: "statement exceeds 32 bytes"})
	require.Contains(t, rendered, "StatementTooLarge")
	require.NotContains(t, rendered, "offset")
}
