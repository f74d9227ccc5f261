// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ateliercraft/atelier/internal/config"
	"github.com/ateliercraft/atelier/internal/database"
	"github.com/ateliercraft/atelier/internal/server"
	"github.com/urfave/cli/v3"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "atelier",
		Usage:   "Content site with courses, newsletter and paywall",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Flags:   config.Flags(),
		Action:  server.Run,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Database migration helpers",
				Flags: config.Flags(),
				Commands: []*cli.Command{
					{
						Name:   "down",
						Usage:  "Roll back the most recent migration",
						Flags:  config.Flags(),
						Action: migrateDown,
					},
					{
						Name:   "reset",
						Usage:  "Roll back all migrations",
						Flags:  config.Flags(),
						Action: migrateReset,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func migrateDown(_ context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	return database.MigrateDown(db.DB)
}

func migrateReset(_ context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	return database.MigrateReset(db.DB)
}
