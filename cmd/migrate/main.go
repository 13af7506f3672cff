package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"libraryapi/internal/platform/logger"
	"libraryapi/internal/platform/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	loadEnvFiles()

	log, err := logger.New("info", "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(log).Run(ctx, os.Args); err != nil {
		log.Error("migrate failed", zap.Error(err))
		stop()
		os.Exit(1)
	}
}

func newApp(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "manage the library database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "postgres connection string",
				Value:   defaultDSN,
				Sources: cli.EnvVars("DB_DSN"),
			},
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "directory holding the SQL migrations",
				Value:   defaultMigrationsDir,
				Sources: cli.EnvVars("MIGRATIONS_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withProvider(log, func(ctx context.Context, _ *cli.Command, p *goose.Provider) error {
					results, err := p.Up(ctx)
					for _, res := range results {
						log.Info("migration applied", zap.String("file", res.Source.Path), zap.Duration("duration", res.Duration))
					}
					if err != nil {
						return err
					}
					log.Info("migrations applied", zap.Int("count", len(results)))
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "roll back the most recent migration",
				Action: withProvider(log, func(ctx context.Context, _ *cli.Command, p *goose.Provider) error {
					res, err := p.Down(ctx)
					if err != nil {
						return err
					}
					log.Info("migration rolled back", zap.String("file", res.Source.Path))
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "list migrations and whether they are applied",
				Action: withProvider(log, func(ctx context.Context, cmd *cli.Command, p *goose.Provider) error {
					statuses, err := p.Status(ctx)
					if err != nil {
						return err
					}
					for _, s := range statuses {
						applied := "pending"
						if s.State == goose.StateApplied {
							applied = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
						_, _ = fmt.Fprintf(cmd.Root().Writer, "%-40s %s\n", s.Source.Path, applied)
					}
					return nil
				}),
			},
			{
				Name:      "create",
				Usage:     "create a new SQL migration",
				ArgsUsage: "<name>",
				Action: func(_ context.Context, cmd *cli.Command) error {
					name := cmd.Args().First()
					if name == "" {
						return errors.New("a migration name is required")
					}
					goose.SetLogger(postgres.GooseLogger{Sugar: log.Sugar()})
					return goose.Create(nil, cmd.String("dir"), name, "sql")
				},
			},
		},
	}
}

type providerAction func(ctx context.Context, cmd *cli.Command, p *goose.Provider) error

// withProvider opens the database named by --dsn and hands a goose provider
// over --dir to fn.
func withProvider(log *zap.Logger, fn providerAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		pool, err := pgxpool.New(ctx, cmd.String("dsn"))
		if err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		defer pool.Close()

		db := stdlib.OpenDBFromPool(pool)
		defer db.Close()

		p, err := newProvider(db, cmd.String("dir"))
		if err != nil {
			return err
		}
		log.Debug("using database", zap.String("dsn", postgres.RedactDSN(cmd.String("dsn"))))
		return fn(ctx, cmd, p)
	}
}

func newProvider(db *sql.DB, dir string) (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("load migrations from %s: %w", dir, err)
	}
	return p, nil
}
