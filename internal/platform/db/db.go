package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/platform/config"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// WithTx runs fn in a transaction, committing when fn returns nil.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit(ctx)
}

// LastCode returns the newest code in table.column, optionally restricted
// to codes starting with prefix. An empty table yields "".
func LastCode(ctx context.Context, q DBTX, table, column, prefix string) (string, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s", column, table)
	var args []any
	if prefix != "" {
		sql += fmt.Sprintf(" WHERE %s LIKE $1", column)
		args = append(args, prefix+"%")
	}
	sql += " ORDER BY created_at DESC LIMIT 1"

	var code string
	err := q.QueryRow(ctx, sql, args...).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

// IncrementCounter atomically bumps the code counter for entity. The row
// lock taken by the upsert serializes concurrent allocations until commit.
func IncrementCounter(ctx context.Context, q DBTX, entity string, seed int) (int, error) {
	var value int
	err := q.QueryRow(ctx, `
    INSERT INTO code_counters (entity, last_value)
    VALUES ($1, $2 + 1)
    ON CONFLICT (entity) DO UPDATE SET last_value = code_counters.last_value + 1, updated_at = now()
    RETURNING last_value
  `, entity, seed).Scan(&value)
	return value, err
}

func NullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func NullIfNil(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}
