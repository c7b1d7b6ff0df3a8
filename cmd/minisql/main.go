// Command minisql is an interactive client of minisqld.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/truora/minisql/server"
)

const dialTimeout = 5 * time.Second

func main() {
	addr := server.DefaultAddr
	if v, ok := os.LookupEnv("MINISQL_ADDR"); ok {
		addr = v
	}

	flag.StringVar(&addr, "addr", addr, "minisqld TCP address")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, addr); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error")+" "+err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, addr string) error {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	cli, err := server.Dial(dialCtx, addr)
	if err != nil {
		return err
	}

	defer func() {
		_ = cli.Close()
	}()

	fmt.Fprintf(os.Stdout, "connected to %s, statements end with ; and %s quits\n", addr, quitCommand)

	return repl(ctx, os.Stdin, os.Stdout, cli.Exec)
}
