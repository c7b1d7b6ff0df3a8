// Command minisqld parses SQL statements received over TCP and HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/smithy-go/logging"
	"golang.org/x/sync/errgroup"

	"github.com/truora/minisql/server"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger := logging.NewStandardLogger(os.Stderr)

	cfg, err := parseArguments(os.Args[1:])
	if err != nil {
		logger.Logf(logging.Warn, "invalid configuration: %v", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Logf(logging.Warn, "minisqld stopped: %v", err)
		os.Exit(1)
	}
}

// parseArguments reads the environment first, flags take precedence
func parseArguments(args []string) (server.Config, error) {
	cfg := server.DefaultConfig()
	if err := cfg.LoadEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("minisqld", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "TCP listen address, empty disables it")
	fs.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP listen address, empty disables it")
	fs.IntVar(&cfg.MaxStatementSize, "max-statement-size", cfg.MaxStatementSize, "maximum bytes of one statement")
	fs.IntVar(&cfg.MaxDepth, "max-depth", cfg.MaxDepth, "maximum expression nesting, negative disables the limit")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log every parsed statement")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg server.Config, logger logging.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	if cfg.Addr != "" {
		ln, err := net.Listen("tcp", cfg.Addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", cfg.Addr, err)
		}

		logger.Logf(logging.Debug, "tcp listening on %s", ln.Addr())

		g.Go(func() error {
			return server.NewServer(cfg, logger).Serve(ctx, ln)
		})
	}

	if cfg.HTTPAddr != "" {
		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           server.NewHandler(cfg, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			logger.Logf(logging.Debug, "http listening on %s", cfg.HTTPAddr)

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving http: %w", err)
			}

			return nil
		})

		g.Go(func() error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
