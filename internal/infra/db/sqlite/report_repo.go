package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"

	domain "github.com/bryanwahyu/contract-review/internal/domain/archive"
)

const schema = `CREATE TABLE IF NOT EXISTS contract_reports (
	id TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL,
	document_name TEXT NOT NULL,
	media_type TEXT NOT NULL,
	document_sha256 TEXT NOT NULL,
	document_url TEXT NOT NULL DEFAULT '',
	score INTEGER NOT NULL,
	result_json TEXT NOT NULL,
	created_at DATETIME NOT NULL
)`

// Open opens (or creates) the archive database at path and ensures the schema.
// Use ":memory:" for a throwaway archive.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// satu koneksi: :memory: per koneksi beda database
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save inserts or replaces an archived report
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	const q = `
INSERT INTO contract_reports
  (id, workspace_id, document_name, media_type, document_sha256, document_url, score, result_json, created_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  document_url=excluded.document_url, score=excluded.score, result_json=excluded.result_json`
	created := rep.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		string(rep.ID), rep.WorkspaceID, rep.DocumentName, rep.MediaType,
		rep.DocumentSHA256, rep.DocumentURL, rep.Score, rep.Result, created.UTC(),
	)
	return err
}

// Paginate returns a page of reports ordered by created_at desc
func (r *ReportRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Report, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	const q = `
SELECT id, workspace_id, document_name, media_type, document_sha256, document_url, score, result_json, created_at
FROM contract_reports
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// Get by ID
func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	const q = `
SELECT id, workspace_id, document_name, media_type, document_sha256, document_url, score, result_json, created_at
FROM contract_reports
WHERE id=?`
	rep, err := scanReport(r.db.QueryRowContext(ctx, q, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	return rep, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(s scanner) (*domain.Report, error) {
	var rep domain.Report
	var id string
	if err := s.Scan(&id, &rep.WorkspaceID, &rep.DocumentName, &rep.MediaType,
		&rep.DocumentSHA256, &rep.DocumentURL, &rep.Score, &rep.Result, &rep.CreatedAt); err != nil {
		return nil, err
	}
	rep.ID = domain.ReportID(id)
	return &rep, nil
}
