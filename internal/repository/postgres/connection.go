package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"travelviet/internal/domain/repositories"
)

// RepositoryConfig holds the shared collaborators for repository
// implementations.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// CreateConnectionPool creates a pgx pool with PgBouncer compatibility.
//
// Supabase's transaction pooler (port 6543) does not support prepared
// statements, which pgx uses by default (QueryExecModeCacheStatement). When
// that port is detected the pool switches to QueryExecModeCacheDescribe:
// extended protocol (so JSONB map encoding still works) without server-side
// prepared statements. An explicit default_query_exec_mode in the
// connection string takes precedence. Direct connections on 5432 keep the
// default.
//
// Dynamic table prefixes (dev_, test_, prod_) are interpolated into SQL
// before it reaches the server, so each environment gets distinct
// statements; no injection surface since prefixes never come from request
// input.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction bound to ctx when one exists,
// otherwise the pool. Repositories call this so they transparently join an
// enclosing transaction.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
