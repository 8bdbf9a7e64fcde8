package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/bryanwahyu/contract-review/internal/domain/archive"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save inserts an archived report
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	const q = `
INSERT INTO contract_reports
  (id, workspace_id, document_name, media_type, document_sha256, document_url, score, result_json, created_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  document_url=VALUES(document_url), score=VALUES(score), result_json=VALUES(result_json);
`
	createdAt := rep.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		rep.ID, stringOrDash(rep.WorkspaceID), stringOrDash(rep.DocumentName), stringOrDash(rep.MediaType),
		rep.DocumentSHA256, rep.DocumentURL, rep.Score, jsonOrEmpty(rep.Result), createdAt.UTC(),
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
	offset := (page - 1) * pageSize

	const q = `
SELECT id, workspace_id, document_name, media_type, document_sha256, document_url, score, result_json, created_at
FROM contract_reports
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
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
WHERE id=?
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
