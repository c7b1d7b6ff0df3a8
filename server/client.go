package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrNotOneStatement when the sent text is not exactly one statement ending with ;
var ErrNotOneStatement = errors.New("exactly one statement ending with ; must be sent")

// Client sends statements to a minisqld TCP listener, one at a time.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
	mu     sync.Mutex
}

// Dial connects to the server at addr
func Dial(ctx context.Context, addr string) (*Client, error) {
	var d net.Dialer

	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}

	return &Client{conn: conn, reader: bufio.NewReader(conn)}, nil
}

// Exec sends one ;-terminated statement and waits for its reply
func (c *Client) Exec(ctx context.Context, statement string) (Reply, error) {
	statement = strings.TrimSpace(statement)

	end := terminator([]byte(statement))
	if end < 0 || end != len(statement)-1 || strings.TrimSpace(statement[:end]) == "" {
		return Reply{}, ErrNotOneStatement
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetDeadline(deadline); err != nil {
			return Reply{}, err
		}

		defer func() { _ = c.conn.SetDeadline(time.Time{}) }()
	}

	if _, err := c.conn.Write([]byte(statement + "\n")); err != nil {
		return Reply{}, fmt.Errorf("sending statement: %w", err)
	}

	line, err := c.reader.ReadString('\n')
	if err != nil {
		return Reply{}, fmt.Errorf("reading reply: %w", err)
	}

	return ParseReply(line)
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Statements cuts text after every ; outside a quoted string, dropping empty
// statements. rest is the unterminated tail.
func Statements(text string) ([]string, string) {
	stmts := []string{}

	for {
		end := terminator([]byte(text))
		if end < 0 {
			return stmts, text
		}

		if stmt := strings.TrimSpace(text[:end+1]); stmt != ";" {
			stmts = append(stmts, stmt)
		}

		text = text[end+1:]
	}
}
