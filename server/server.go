package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/aws/smithy-go/logging"
	"golang.org/x/sync/errgroup"

	"github.com/truora/minisql/interpreter"
)

// ErrCodeStatementTooLarge is replied before closing a connection whose
// statement outgrew the buffer
const ErrCodeStatementTooLarge = "StatementTooLarge"

// Server answers ;-terminated statements sent over TCP with one line each.
type Server struct {
	interpreter      interpreter.Interpreter
	logger           logging.Logger
	maxStatementSize int
}

// NewServer creates a TCP server, a nil logger discards the logs
func NewServer(cfg Config, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop{}
	}

	maxSize := cfg.MaxStatementSize
	if maxSize <= 0 {
		maxSize = DefaultMaxStatementSize
	}

	return &Server{
		interpreter:      &interpreter.SQL{Debug: cfg.Debug, MaxDepth: cfg.MaxDepth, Logger: logger},
		logger:           logger,
		maxStatementSize: maxSize,
	}
}

// Serve accepts connections until ctx is done or the listener fails. Every
// connection is served on its own goroutine and is closed on shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	conns := &connSet{conns: map[net.Conn]struct{}{}}

	g.Go(func() error {
		<-ctx.Done()

		_ = ln.Close()
		conns.closeAll()

		return nil
	})

	g.Go(func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}

				return fmt.Errorf("accepting connection: %w", err)
			}

			if !conns.add(conn) {
				return nil
			}

			g.Go(func() error {
				defer conns.remove(conn)

				s.serveConn(ctx, conn)

				return nil
			})
		}
	})

	return g.Wait()
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	defer func() {
		err := conn.Close()
		if err != nil && ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Logf(logging.Warn, "error closing connection %s: %v", conn.RemoteAddr(), err)
		}
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, min(4096, s.maxStatementSize)), s.maxStatementSize)
	scanner.Split(splitStatements)

	w := bufio.NewWriter(conn)

	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" || input == ";" {
			continue
		}

		stmt, err := s.interpreter.Parse(input)
		if err != nil {
			_, _ = w.WriteString(FormatError(err))
		} else {
			_, _ = w.WriteString(FormatOK(stmt.String()))
		}

		if err := w.Flush(); err != nil {
			s.logger.Logf(logging.Warn, "error writing to %s: %v", conn.RemoteAddr(), err)

			return
		}
	}

	err := scanner.Err()
	switch {
	case errors.Is(err, bufio.ErrTooLong):
		_, _ = fmt.Fprintf(w, "ERR %s: statement exceeds %d bytes\n", ErrCodeStatementTooLarge, s.maxStatementSize)
		_ = w.Flush()
	case err != nil && ctx.Err() == nil && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed):
		s.logger.Logf(logging.Warn, "error reading from %s: %v", conn.RemoteAddr(), err)
	}
}

// splitStatements is a bufio.SplitFunc cutting the stream after every ;
// outside a quoted string. Bytes left when the stream ends form a last,
// unterminated statement.
func splitStatements(data []byte, atEOF bool) (int, []byte, error) {
	if i := terminator(data); i >= 0 {
		return i + 1, data[:i+1], nil
	}

	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}

	return 0, nil, nil
}

// terminator returns the index of the first ; outside a quoted string, or -1
func terminator(data []byte) int {
	var quote byte

	for i, ch := range data {
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == ';':
			return i
		}
	}

	return -1
}

type connSet struct {
	mu     sync.Mutex
	closed bool
	conns  map[net.Conn]struct{}
}

// add tracks conn, or closes it when the set was already shut down
func (cs *connSet) add(conn net.Conn) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.closed {
		_ = conn.Close()

		return false
	}

	cs.conns[conn] = struct{}{}

	return true
}

func (cs *connSet) remove(conn net.Conn) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	delete(cs.conns, conn)
}

func (cs *connSet) closeAll() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.closed = true

	for conn := range cs.conns {
		_ = conn.Close()
	}
}
