// Package main is the entry point for the Uma schema migration tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/uma-movies/uma-server/internal/config"
	"github.com/uma-movies/uma-server/internal/repository/postgres"
	"github.com/uma-movies/uma-server/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// migratableDB is the slice of the driver DB handles the tool needs.
type migratableDB interface {
	Ping(ctx context.Context) error
	Version(ctx context.Context) (int, error)
	Migrate(ctx context.Context) error
	Close() error
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Uma Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up", "status":
		if err := run(command, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	_ = fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	ctx := context.Background()

	var db migratableDB
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgres.NewDB(ctx, cfg.Database, logger)
	default:
		db, err = sqlite.Open(ctx, cfg.Database, logger)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	switch command {
	case "up":
		before, err := db.Version(ctx)
		if err != nil {
			return err
		}
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		after, err := db.Version(ctx)
		if err != nil {
			return err
		}
		if after == before {
			fmt.Printf("schema already at version %d\n", after)
		} else {
			fmt.Printf("migrated schema from version %d to %d\n", before, after)
		}
		return nil

	case "status":
		version, err := db.Version(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("driver:  %s\n", cfg.Database.Driver)
		fmt.Printf("version: %d\n", version)
		return nil
	}

	return nil
}

func printUsage() {
	fmt.Println(`Uma Migration Tool

Usage:
  uma-migrate <command> [arguments]

Commands:
  up          Apply all pending migrations
  status      Show the current schema version
  version     Print version information
  help        Show this help message

All commands accept --config pointing at the server configuration file;
without it the usual config search paths and UMA_* environment variables
apply.

Examples:
  uma-migrate up
  uma-migrate status
  uma-migrate up --config /etc/uma/config.yaml`)
}
