package archive

import "context"

// Repository port for persisting and querying archived reports
type Repository interface {
	Save(ctx context.Context, r *Report) error
	Paginate(ctx context.Context, page, pageSize int) ([]*Report, error)
	Get(ctx context.Context, id ReportID) (*Report, error)
}

// DocumentStore keeps the original contract bytes.
type DocumentStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
