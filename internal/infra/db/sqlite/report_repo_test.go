package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/contract-review/internal/domain/archive"
)

func newRepo(t *testing.T) *ReportRepository {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReportRepository(db)
}

func report(i int, at time.Time) *domain.Report {
	return &domain.Report{
		ID:             domain.ReportID(fmt.Sprintf("rep-%02d", i)),
		WorkspaceID:    "ws-1",
		DocumentName:   fmt.Sprintf("contract-%d.pdf", i),
		MediaType:      "application/pdf",
		DocumentSHA256: "abc123",
		Score:          50 + i,
		Result:         `{"summary":"s","inconsistencies":[],"redFlags":[],"overallScore":50}`,
		CreatedAt:      at,
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, report(1, at)))

	got, err := repo.Get(ctx, "rep-01")
	require.NoError(t, err)
	assert.Equal(t, "contract-1.pdf", got.DocumentName)
	assert.Equal(t, 51, got.Score)
	assert.True(t, at.Equal(got.CreatedAt))

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestSaveUpserts(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	r := report(1, time.Now().UTC())
	require.NoError(t, repo.Save(ctx, r))

	r.Score = 99
	r.DocumentURL = "http://minio/x"
	require.NoError(t, repo.Save(ctx, r))

	got, err := repo.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 99, got.Score)
	assert.Equal(t, "http://minio/x", got.DocumentURL)
}

func TestPaginateNewestFirst(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Save(ctx, report(i, base.Add(time.Duration(i)*time.Hour))))
	}

	first, err := repo.Paginate(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, domain.ReportID("rep-05"), first[0].ID)
	assert.Equal(t, domain.ReportID("rep-04"), first[1].ID)

	last, err := repo.Paginate(ctx, 3, 2)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, domain.ReportID("rep-01"), last[0].ID)

	empty, err := repo.Paginate(ctx, 9, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
