package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fitcoachhq/fitcoach-backend/pkg/config"
	"github.com/fitcoachhq/fitcoach-backend/pkg/db"
	"github.com/fitcoachhq/fitcoach-backend/pkg/logger"
	"github.com/fitcoachhq/fitcoach-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for -cmd=create)")
	version := flag.String("version", "", "target version YYYYMMDDHHMMSS (for -cmd=version)")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(*cmd, *dir, *name, *version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd, dir, name, version string) error {
	// create and validate work on files only, no config or DB needed.
	switch cmd {
	case "create":
		if name == "" {
			return fmt.Errorf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(dir, name)
		if err != nil {
			return fmt.Errorf("create migration: %w", err)
		}
		fmt.Println("created migration:", path)
		return nil

	case "validate":
		if err := migrate.ValidateDir(dir); err != nil {
			return fmt.Errorf("migration validation failed: %w", err)
		}
		fmt.Println("migration validation passed")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": cmd,
		"dir": dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}

	switch cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, dir, cmd); err != nil {
			return fmt.Errorf("goose %s: %w", cmd, err)
		}
	case "version":
		if version == "" {
			return fmt.Errorf("missing -version for version command")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, dir, version); err != nil {
			return fmt.Errorf("migrate to version: %w", err)
		}
	default:
		return fmt.Errorf("unknown -cmd value: %s", cmd)
	}
	return nil
}
