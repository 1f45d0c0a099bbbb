package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dtroode/miniapp-server/internal/database"
)

// Connection holds the pgx pool and a database/sql handle over the same pool.
type Connection struct {
	*pgxpool.Pool
	sqlDB *sql.DB
}

// NewConnection opens the pool and applies migrations.
func NewConnection(ctx context.Context, dsn string) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	if err := database.Migrate(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Connection{
		Pool:  pool,
		sqlDB: sqlDB,
	}, nil
}

// SQL returns the database/sql handle.
func (s *Connection) SQL() *sql.DB {
	return s.sqlDB
}

func (s *Connection) Close() error {
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

func (s *Connection) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return s.Pool.Ping(ctx)
}
