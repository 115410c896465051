// Package postgres persists optimisation results as JSON documents keyed by
// job id. Records are written once per job and overwritten on retries.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/urbansense/placement-core/pkg/models"
)

// ErrResultNotFound indicates no stored result for a job id
var ErrResultNotFound = errors.New("result not found")

// PostgresRepository stores result records in two jsonb tables
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Migrate creates the result tables if they do not exist
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS network_results (
			job_id     TEXT PRIMARY KEY,
			record     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS population_results (
			job_id     TEXT PRIMARY KEY,
			record     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("postgres: failed to run migrations: %w", err)
	}
	return nil
}

// SaveNetwork persists a single-network result
func (r *PostgresRepository) SaveNetwork(ctx context.Context, jobID string, rec *models.NetworkRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode network record: %w", err)
	}

	query := `
		INSERT INTO network_results (job_id, record) VALUES ($1, $2)
		ON CONFLICT (job_id) DO UPDATE SET record = EXCLUDED.record
	`
	if _, err := r.pool.Exec(ctx, query, jobID, data); err != nil {
		return fmt.Errorf("postgres: failed to save network result: %w", err)
	}
	return nil
}

// SavePopulation persists a population result
func (r *PostgresRepository) SavePopulation(ctx context.Context, jobID string, rec *models.PopulationRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode population record: %w", err)
	}

	query := `
		INSERT INTO population_results (job_id, record) VALUES ($1, $2)
		ON CONFLICT (job_id) DO UPDATE SET record = EXCLUDED.record
	`
	if _, err := r.pool.Exec(ctx, query, jobID, data); err != nil {
		return fmt.Errorf("postgres: failed to save population result: %w", err)
	}
	return nil
}

// GetNetwork retrieves a single-network result by job id
func (r *PostgresRepository) GetNetwork(ctx context.Context, jobID string) (*models.NetworkRecord, error) {
	var data []byte
	query := `SELECT record FROM network_results WHERE job_id = $1`
	if err := r.pool.QueryRow(ctx, query, jobID).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrResultNotFound, jobID)
		}
		return nil, fmt.Errorf("postgres: failed to query network result: %w", err)
	}

	var rec models.NetworkRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("postgres: failed to decode network record: %w", err)
	}
	return &rec, nil
}

// GetPopulation retrieves a population result by job id
func (r *PostgresRepository) GetPopulation(ctx context.Context, jobID string) (*models.PopulationRecord, error) {
	var data []byte
	query := `SELECT record FROM population_results WHERE job_id = $1`
	if err := r.pool.QueryRow(ctx, query, jobID).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrResultNotFound, jobID)
		}
		return nil, fmt.Errorf("postgres: failed to query population result: %w", err)
	}

	var rec models.PopulationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("postgres: failed to decode population record: %w", err)
	}
	return &rec, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
