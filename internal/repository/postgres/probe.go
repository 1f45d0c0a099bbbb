package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Probe reports database readiness over database/sql.
type Probe struct {
	db *sql.DB
}

func NewProbe(db *sql.DB) *Probe {
	return &Probe{db: db}
}

// Ready pings the database and returns the applied schema version.
func (p *Probe) Ready(ctx context.Context) (int64, error) {
	if err := p.db.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("failed to ping database: %w", err)
	}

	var version sql.NullInt64
	err := p.db.QueryRowContext(ctx,
		`SELECT MAX(version_id) FROM goose_db_version WHERE is_applied`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	return version.Int64, nil
}
