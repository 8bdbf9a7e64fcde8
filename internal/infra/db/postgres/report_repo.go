package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/bryanwahyu/contract-review/internal/domain/archive"
)

type ReportRepository struct{ db *sql.DB }

func NewReportRepository(db *sql.DB) *ReportRepository { return &ReportRepository{db: db} }

// Save insert/update archived report
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	const q = `
INSERT INTO contract_reports
(id, workspace_id, document_name, media_type, document_sha256, document_url, score, result_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
 document_url = EXCLUDED.document_url,
 score = EXCLUDED.score,
 result_json = EXCLUDED.result_json;`

	created := rep.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		rep.ID, stringOrDash(rep.WorkspaceID), stringOrDash(rep.DocumentName), stringOrDash(rep.MediaType),
		rep.DocumentSHA256, rep.DocumentURL, rep.Score, jsonOrEmpty(rep.Result), created.UTC(),
	)
	return err
}

// Paginate with offset + limit, newest first
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
LIMIT $1 OFFSET $2;`
	rows, err := r.db.QueryContext(ctx, q, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Report
	for rows.Next() {
		var rep domain.Report
		if err := rows.Scan(&rep.ID, &rep.WorkspaceID, &rep.DocumentName, &rep.MediaType,
			&rep.DocumentSHA256, &rep.DocumentURL, &rep.Score, &rep.Result, &rep.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rep)
	}
	return out, rows.Err()
}

// Get by ID
func (r *ReportRepository) Get(ctx context.Context, id domain.ReportID) (*domain.Report, error) {
	const q = `
SELECT id, workspace_id, document_name, media_type, document_sha256, document_url, score, result_json, created_at
FROM contract_reports
WHERE id=$1
LIMIT 1;`
	var rep domain.Report
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rep.ID, &rep.WorkspaceID, &rep.DocumentName, &rep.MediaType,
		&rep.DocumentSHA256, &rep.DocumentURL, &rep.Score, &rep.Result, &rep.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

