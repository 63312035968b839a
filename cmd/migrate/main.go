package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"hotelier/internal/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		fmt.Println("Usage: migrate <command>")
		fmt.Println("Commands:")
		fmt.Println("  up       Apply all pending migrations")
		fmt.Println("  down     Rollback the last migration")
		fmt.Println("  drop     Drop all tables (DANGEROUS)")
		fmt.Println("  version  Show current migration version")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	m, err := migrate.New("file://migrations", cfg.DB.BuildDSN())
	if err != nil {
		slog.Error("Failed to create migrator", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	switch args[0] {
	case "up":
		slog.Info("Applying migrations")
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			slog.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Migrations applied successfully")

	case "down":
		slog.Info("Rolling back last migration")
		if err := m.Steps(-1); err != nil {
			slog.Error("Rollback failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Rollback completed")

	case "drop":
		slog.Warn("Dropping all tables")
		if err := m.Drop(); err != nil {
			slog.Error("Drop failed", "error", err)
			os.Exit(1)
		}
		slog.Info("All tables dropped")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			slog.Error("Failed to get version", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		os.Exit(1)
	}
}
