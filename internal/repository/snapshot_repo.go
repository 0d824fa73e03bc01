package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rubconverter/internal/provider"
)

// MaxListLimit caps how many archived snapshots a single query returns.
const MaxListLimit = 500

// RateSnapshot is one archived upstream fetch.
type RateSnapshot struct {
	ID        int64
	Source    string
	USDRate   float64
	EURRate   float64
	FetchedAt time.Time
}

// SnapshotRepository defines DB operations for the rate archive.
type SnapshotRepository interface {
	RecordSnapshot(ctx context.Context, source string, snap provider.Snapshot, fetchedAt time.Time) error
	LatestSnapshot(ctx context.Context) (*RateSnapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]RateSnapshot, error)
}

// PostgresSnapshotRepository is an implementation of SnapshotRepository using PostgreSQL.
type PostgresSnapshotRepository struct {
	db *sql.DB
}

// NewPostgresSnapshotRepository creates a new PostgresSnapshotRepository.
func NewPostgresSnapshotRepository(db *sql.DB) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

var (
	_ SnapshotRepository        = (*PostgresSnapshotRepository)(nil)
	_ provider.SnapshotRecorder = (*PostgresSnapshotRepository)(nil)
)

// RecordSnapshot inserts a snapshot fetched from source.
func (r *PostgresSnapshotRepository) RecordSnapshot(ctx context.Context, source string, snap provider.Snapshot, fetchedAt time.Time) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("refusing to archive snapshot: %w", err)
	}

	query := `INSERT INTO rate_snapshots (source, usd_rate, eur_rate, fetched_at)
              VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, source, snap.USDRate, snap.EURRate, fetchedAt.UTC()); err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently fetched snapshot, or (nil, nil) when the archive is empty.
func (r *PostgresSnapshotRepository) LatestSnapshot(ctx context.Context) (*RateSnapshot, error) {
	query := `SELECT id, source, usd_rate::float8, eur_rate::float8, fetched_at
              FROM rate_snapshots
              ORDER BY fetched_at DESC, id DESC
              LIMIT 1`

	var s RateSnapshot
	err := r.db.QueryRowContext(ctx, query).Scan(&s.ID, &s.Source, &s.USDRate, &s.EURRate, &s.FetchedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListSnapshots returns up to limit snapshots, newest first.
func (r *PostgresSnapshotRepository) ListSnapshots(ctx context.Context, limit int) ([]RateSnapshot, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := `SELECT id, source, usd_rate::float8, eur_rate::float8, fetched_at
              FROM rate_snapshots
              ORDER BY fetched_at DESC, id DESC
              LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // best-effort close

	snapshots := make([]RateSnapshot, 0, limit)
	for rows.Next() {
		var s RateSnapshot
		if err := rows.Scan(&s.ID, &s.Source, &s.USDRate, &s.EURRate, &s.FetchedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
