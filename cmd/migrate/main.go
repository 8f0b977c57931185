package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/patsapolpro/web-starter-kit-ai/internal/app"
	"github.com/patsapolpro/web-starter-kit-ai/internal/config"
	"github.com/patsapolpro/web-starter-kit-ai/internal/logger"
	"github.com/patsapolpro/web-starter-kit-ai/internal/migration"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Context struct {
	DatabaseURL string
}

func (c *Context) open(ctx context.Context) (*migration.Migrator, error) {
	dsn := c.DatabaseURL
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		dsn = cfg.Database.DSN()
	}
	return migration.NewFromDSN(ctx, dsn, logger.New())
}

type UpCmd struct{}

func (cmd *UpCmd) Run(c *Context) error {
	return withMigrator(c, func(ctx context.Context, m *migration.Migrator) error {
		return m.Up()
	})
}

type DownCmd struct {
	Steps int `arg:"" optional:"" help:"Number of migrations to roll back (all when omitted)."`
}

func (cmd *DownCmd) Run(c *Context) error {
	return withMigrator(c, func(ctx context.Context, m *migration.Migrator) error {
		return m.Down(cmd.Steps)
	})
}

type VersionCmd struct{}

func (cmd *VersionCmd) Run(c *Context) error {
	return withMigrator(c, func(ctx context.Context, m *migration.Migrator) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current schema version")
		return nil
	})
}

type ForceCmd struct {
	Version int `arg:"" help:"Version to record as applied."`
}

func (cmd *ForceCmd) Run(c *Context) error {
	return withMigrator(c, func(ctx context.Context, m *migration.Migrator) error {
		return m.Force(cmd.Version)
	})
}

type TablesCmd struct{}

func (cmd *TablesCmd) Run(c *Context) error {
	return withMigrator(c, func(ctx context.Context, m *migration.Migrator) error {
		tables, err := m.Tables(ctx)
		if err != nil {
			return err
		}
		log.Info().Str("tables", strings.Join(tables, ", ")).Int("count", len(tables)).Msg("schema tables")
		return nil
	})
}

func withMigrator(c *Context, fn func(ctx context.Context, m *migration.Migrator) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	m, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close migrator")
		}
	}()

	return fn(ctx, m)
}

var CLI struct {
	Version     kong.VersionFlag
	DatabaseURL string `help:"Postgres connection string. Defaults to the service configuration." env:"DATABASE_URL,POSTGRES_URL"`

	Up      UpCmd      `cmd:"" help:"Apply all pending migrations."`
	Down    DownCmd    `cmd:"" help:"Roll back migrations."`
	Current VersionCmd `cmd:"" name:"version" help:"Print the current schema version."`
	Force   ForceCmd   `cmd:"" help:"Set the schema version without running migrations."`
	Tables  TablesCmd  `cmd:"" help:"List application tables."`
}

func main() {
	_ = godotenv.Load()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	ctx := kong.Parse(&CLI,
		kong.Name("migrate"),
		kong.Description("Schema migrations for the requirement tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("%s (%s)", app.Version, app.GitCommit)},
	)

	if err := ctx.Run(&Context{DatabaseURL: CLI.DatabaseURL}); err != nil {
		log.Fatal().Err(err).Msg("migration command failed")
	}
}
