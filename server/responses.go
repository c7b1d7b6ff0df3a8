package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/truora/minisql/types"
)

// Shapes exchanged with clients, the reply line of the TCP protocol and the
// JSON bodies of the HTTP handler.

// StatementInput is the body of every HTTP operation
type StatementInput struct {
	Statement string `json:"Statement"`
}

// ParseOutput is returned by MiniSQL.Parse
type ParseOutput struct {
	Kind      string `json:"Kind"`
	Statement string `json:"Statement"`
}

// TokenOutput is one lexed token
type TokenOutput struct {
	Type    string `json:"Type"`
	Literal string `json:"Literal"`
	Pos     int    `json:"Pos"`
}

// TokenizeOutput is returned by MiniSQL.Tokenize
type TokenizeOutput struct {
	Tokens []TokenOutput `json:"Tokens"`
}

// LowerOutput is returned by MiniSQL.Lower, Input holds the DynamoDB
// request body.
type LowerOutput struct {
	Operation string          `json:"Operation"`
	Target    string          `json:"Target"`
	Input     json.RawMessage `json:"Input"`
}

// Reply is a decoded TCP reply line
type Reply struct {
	OK bool
	// Statement is the rendered statement of an OK reply
	Statement string
	Code      string
	// Offset is -1 when the error has no position
	Offset  int
	Message string
}

// FormatOK renders the reply to a parsed statement
func FormatOK(rendered string) string {
	return "OK " + oneLine(rendered) + "\n"
}

// FormatError renders the reply to a failure
func FormatError(err error) string {
	var posErr types.PositionError
	if errors.As(err, &posErr) && posErr.Position() >= 0 {
		return fmt.Sprintf("ERR %s at offset %d: %s\n", posErr.Code(), posErr.Position(), oneLine(posErr.Message()))
	}

	var coded types.Error
	if errors.As(err, &coded) {
		return fmt.Sprintf("ERR %s: %s\n", coded.Code(), oneLine(coded.Message()))
	}

	return fmt.Sprintf("ERR InternalFailure: %s\n", oneLine(err.Error()))
}

// ParseReply decodes a reply line
func ParseReply(line string) (Reply, error) {
	line = strings.TrimRight(line, "\r\n")

	if rendered, ok := strings.CutPrefix(line, "OK "); ok {
		return Reply{OK: true, Statement: rendered, Offset: -1}, nil
	}

	rest, ok := strings.CutPrefix(line, "ERR ")
	if !ok {
		return Reply{}, fmt.Errorf("malformed reply %q", line)
	}

	head, msg, ok := strings.Cut(rest, ": ")
	if !ok {
		return Reply{}, fmt.Errorf("malformed error reply %q", line)
	}

	reply := Reply{Code: head, Offset: -1, Message: msg}

	if code, offset, found := strings.Cut(head, " at offset "); found {
		n, err := strconv.Atoi(offset)
		if err != nil {
			return Reply{}, fmt.Errorf("malformed offset in %q: %w", line, err)
		}

		reply.Code = code
		reply.Offset = n
	}

	return reply, nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// oneLine keeps a reply on a single line
func oneLine(s string) string {
	return lineBreaks.Replace(s)
}
