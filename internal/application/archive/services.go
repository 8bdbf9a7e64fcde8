package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/bryanwahyu/contract-review/internal/application"
	domain "github.com/bryanwahyu/contract-review/internal/domain/archive"
	"github.com/bryanwahyu/contract-review/internal/domain/review"
)

// Service records completed analyses and serves them back.
// Documents is optional; without it only the row is written.
type Service struct {
	Repo      domain.Repository
	Documents domain.DocumentStore
	Clock     application.Clock
}

// Record simpan hasil analisa (dan file aslinya kalau storage aktif)
func (s *Service) Record(ctx context.Context, workspaceID string, doc *review.Document, res review.AnalysisResult) error {
	if doc == nil {
		return errors.New("archive: no document")
	}
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("archive: encode result: %w", err)
	}

	var docURL string
	if s.Documents != nil {
		docURL, err = s.Documents.Put(ctx, DocumentKey(workspaceID, doc), doc.MediaType, doc.Data)
		if err != nil {
			return fmt.Errorf("archive: upload document: %w", err)
		}
	}

	r := &domain.Report{
		ID:             domain.ReportID(uuid.New().String()),
		WorkspaceID:    workspaceID,
		DocumentName:   doc.Name,
		MediaType:      doc.MediaType,
		DocumentSHA256: doc.SHA256,
		DocumentURL:    docURL,
		Score:          res.OverallScore,
		Result:         string(body),
		CreatedAt:      s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, r); err != nil {
		return fmt.Errorf("archive: save report: %w", err)
	}
	return nil
}

// List returns one page of archived reports, newest first.
func (s *Service) List(ctx context.Context, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	items, err := s.Repo.Paginate(ctx, page, pageSize)
	if err != nil {
		return domain.PaginatedResult{}, err
	}
	if items == nil {
		items = []*domain.Report{}
	}
	return domain.PaginatedResult{Data: items, Page: page, PageSize: pageSize}, nil
}

// Get returns a single archived report.
func (s *Service) Get(ctx context.Context, id string) (*domain.Report, error) {
	return s.Repo.Get(ctx, domain.ReportID(id))
}

// DocumentKey is the object key of an archived contract: <workspace>/<sha256>/<name>.
func DocumentKey(workspaceID string, doc *review.Document) string {
	return fmt.Sprintf("%s/%s/%s", workspaceID, doc.SHA256, url.PathEscape(doc.Name))
}
