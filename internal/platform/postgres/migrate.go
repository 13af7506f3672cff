package postgres

import (
	"context"
	"fmt"

	"libraryapi/db/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	results, err := provider.Up(ctx)
	for _, res := range results {
		logger.Info("migration applied",
			zap.Int64("version", res.Source.Version),
			zap.String("file", res.Source.Path),
			zap.Duration("duration", res.Duration),
		)
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if len(results) == 0 {
		logger.Info("database schema up to date")
	}
	return nil
}

// GooseLogger adapts zap to goose's package-level logger.
type GooseLogger struct {
	Sugar *zap.SugaredLogger
}

func (l GooseLogger) Printf(format string, v ...any) {
	l.Sugar.Infof(format, v...)
}

func (l GooseLogger) Fatalf(format string, v ...any) {
	l.Sugar.Fatalf(format, v...)
}
