package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eringen/foodies"
	"github.com/eringen/foodies/postgres"
	"github.com/eringen/foodies/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) >= 2 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "init":
		dir := "."
		if len(os.Args) >= 3 {
			dir = os.Args[2]
		}
		if err := runInit(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("foodies %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	cfg := foodies.ConfigFromEnv()

	var opts []foodies.Option
	if postgres.IsURL(cfg.DatabasePath) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := postgres.New(ctx, cfg.DatabasePath)
		cancel()
		if err != nil {
			return err
		}
		opts = append(opts, foodies.WithStore(store))
	}

	app := foodies.New(cfg, views.New(cfg), opts...)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	app.Echo.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func printUsage() {
	fmt.Println(`foodies - A recipe sharing site built with Go, Echo, and templ

Usage:
  foodies [command] [arguments]

Commands:
  serve         Run the web server (default)
  init [dir]    Write .env.example and create data and upload directories
  version       Print the foodies version
  help          Show this help message

Configuration is read from the environment and an optional .env file.
SESSION_SECRET is required. DATABASE_URL may be a SQLite path or a
postgres:// URL.`)
}
