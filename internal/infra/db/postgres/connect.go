package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the contract_reports table when it is missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	const q = `
CREATE TABLE IF NOT EXISTS contract_reports (
  id              TEXT PRIMARY KEY,
  workspace_id    TEXT NOT NULL,
  document_name   TEXT NOT NULL,
  media_type      TEXT NOT NULL,
  document_sha256 TEXT NOT NULL,
  document_url    TEXT NOT NULL,
  score           INTEGER NOT NULL,
  result_json     JSONB NOT NULL,
  created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contract_reports_created ON contract_reports (created_at DESC);`
	_, err := db.ExecContext(ctx, q)
	return err
}
