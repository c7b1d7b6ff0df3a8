package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/truora/minisql/server"
)

const (
	prompt       = "minisql> "
	continuation = "      -> "
	quitCommand  = "q"
)

type execFunc func(ctx context.Context, statement string) (server.Reply, error)

// repl reads statements from in until EOF or the quit command, sending each
// complete one to exec. Lines are accumulated until a ; ends a statement.
func repl(ctx context.Context, in io.Reader, out io.Writer, exec execFunc) error {
	scanner := bufio.NewScanner(in)
	pending := ""

	writePrompt(out, pending)

	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(pending) == "" && strings.TrimSpace(line) == quitCommand {
			return nil
		}

		stmts, rest := server.Statements(pending + line + "\n")
		pending = rest

		for _, stmt := range stmts {
			reply, err := exec(ctx, stmt)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, renderReply(reply))
		}

		writePrompt(out, pending)
	}

	return scanner.Err()
}

func writePrompt(out io.Writer, pending string) {
	if strings.TrimSpace(pending) == "" {
		fmt.Fprint(out, promptStyle.Render(prompt))
		return
	}

	fmt.Fprint(out, continuationStyle.Render(continuation))
}

func renderReply(reply server.Reply) string {
	if reply.OK {
		return successStyle.Render("OK") + " " + reply.Statement
	}

	s := errorStyle.Render(reply.Code)
	if reply.Offset >= 0 {
		s += " " + offsetStyle.Render(fmt.Sprintf("at offset %d", reply.Offset))
	}

	return s + " " + errorMessageStyle.Render(reply.Message)
}
