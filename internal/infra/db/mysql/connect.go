package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
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
  id              VARCHAR(64)  NOT NULL PRIMARY KEY,
  workspace_id    VARCHAR(64)  NOT NULL,
  document_name   VARCHAR(255) NOT NULL,
  media_type      VARCHAR(64)  NOT NULL,
  document_sha256 CHAR(64)     NOT NULL,
  document_url    VARCHAR(1024) NOT NULL,
  score           INT          NOT NULL,
  result_json     JSON         NOT NULL,
  created_at      DATETIME(3)  NOT NULL,
  INDEX idx_contract_reports_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
	_, err := db.ExecContext(ctx, q)
	return err
}
