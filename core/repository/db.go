package repository

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// DB wraps the sql connection pool
type DB struct {
	*sql.DB
}

// NewDB connects to Postgres and bootstraps the schema
func NewDB(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	wrapped := &DB{DB: db}
	if err := wrapped.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return wrapped, nil
}

func (db *DB) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT 'text-recognition',
			status TEXT NOT NULL DEFAULT 'draft',
			created_by TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			notes TEXT NOT NULL DEFAULT '',
			epochs INT NOT NULL DEFAULT 100,
			batch_size INT NOT NULL DEFAULT 32,
			learning_rate DOUBLE PRECISION NOT NULL DEFAULT 0.001,
			validation_split DOUBLE PRECISION NOT NULL DEFAULT 0.2,
			current_job_id TEXT NOT NULL DEFAULT '',
			records INT NOT NULL DEFAULT 0,
			labels TEXT[] NOT NULL DEFAULT '{}',
			model_uri TEXT NOT NULL DEFAULT '',
			model_version INT NOT NULL DEFAULT 0,
			model_type TEXT NOT NULL DEFAULT '',
			model_accuracy DOUBLE PRECISION NOT NULL DEFAULT 0,
			model_labels TEXT[] NOT NULL DEFAULT '{}',
			model_trained_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS examples (
			id BIGSERIAL PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			text TEXT NOT NULL,
			added_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_examples_project ON examples(project_id, label, id)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			started_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ,
			error_msg TEXT NOT NULL DEFAULT '',
			progress DOUBLE PRECISION NOT NULL DEFAULT 0,
			epochs INT NOT NULL DEFAULT 100,
			batch_size INT NOT NULL DEFAULT 32,
			learning_rate DOUBLE PRECISION NOT NULL DEFAULT 0.001,
			validation_split DOUBLE PRECISION NOT NULL DEFAULT 0.2,
			result_json TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_project ON jobs(project_id, created_at DESC)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_jobs_one_active ON jobs(project_id) WHERE status IN ('pending', 'running')`,
		`CREATE TABLE IF NOT EXISTS job_events (
			id BIGSERIAL PRIMARY KEY,
			job_id TEXT NOT NULL,
			at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			from_status TEXT,
			to_status TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS model_versions (
			id BIGSERIAL PRIMARY KEY,
			project_id TEXT NOT NULL,
			version INT NOT NULL,
			uri TEXT NOT NULL,
			model_type TEXT NOT NULL DEFAULT '',
			accuracy DOUBLE PRECISION NOT NULL DEFAULT 0,
			labels TEXT[] NOT NULL DEFAULT '{}',
			trained_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
