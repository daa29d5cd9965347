package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// migrator is the subset of database.MigrationRunner the CLI drives.
type migrator interface {
	WaitForDatabase() error
	RunMigrations() error
	RollbackMigrations(steps int) error
	LoadSeeds() error
	GetMigrationStatus() (uint, bool, error)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := config.LoadDatabase()

	db, err := sql.Open("postgres", cfg.URL())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := run(os.Args[1:], database.NewMigrationRunner(db, &cfg), os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, m migrator, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	steps := fs.Int("steps", 1, "Number of migrations to roll back with 'down' (0 rolls back all)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: migrate [-steps N] up|down|status")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one command: up, down or status")
	}

	if err := m.WaitForDatabase(); err != nil {
		return err
	}

	switch cmd := fs.Arg(0); cmd {
	case "up":
		if err := m.RunMigrations(); err != nil {
			return err
		}
		if err := m.LoadSeeds(); err != nil {
			return err
		}
	case "down":
		if *steps < 0 {
			return fmt.Errorf("invalid steps %d: must not be negative", *steps)
		}
		if err := m.RollbackMigrations(*steps); err != nil {
			return err
		}
	case "status":
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}

	version, dirty, err := m.GetMigrationStatus()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(stdout, "no migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read migration status: %w", err)
	}
	fmt.Fprintf(stdout, "version=%d dirty=%t\n", version, dirty)
	return nil
}
