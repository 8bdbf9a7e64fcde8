package mysql

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/contract-review/internal/domain/archive"
)

func TestHelpers(t *testing.T) {
	assert.Equal(t, "-", stringOrDash("  "))
	assert.Equal(t, "msa.pdf", stringOrDash("msa.pdf"))
	assert.Equal(t, "{}", jsonOrEmpty(""))
	assert.Equal(t, `{"a":1}`, jsonOrEmpty(`{"a":1}`))
}

// newRepo connects to the database named by MYSQL_TEST_DSN, e.g.
// user:pass@tcp(127.0.0.1:3306)/contracts?parseTime=true&loc=UTC
func newRepo(t *testing.T) *ReportRepository {
	t.Helper()
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(ctx, db))
	return NewReportRepository(db)
}

func newReport(t *testing.T, repo *ReportRepository, at time.Time) *domain.Report {
	t.Helper()
	rep := &domain.Report{
		ID:             domain.ReportID(uuid.NewString()),
		WorkspaceID:    uuid.NewString(),
		DocumentName:   "msa.pdf",
		MediaType:      "application/pdf",
		DocumentSHA256: "abc123",
		Score:          62,
		Result:         `{"summary":"s","inconsistencies":["Net 45 vs required Net 30"],"redFlags":[],"overallScore":62}`,
		CreatedAt:      at,
	}
	t.Cleanup(func() {
		repo.db.ExecContext(context.Background(), `DELETE FROM contract_reports WHERE id=?`, rep.ID)
	})
	return rep
}

func TestSaveUpsertsAndGets(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Millisecond)

	rep := newReport(t, repo, at)
	rep.Result = ""
	require.NoError(t, repo.Save(ctx, rep))

	got, err := repo.Get(ctx, rep.ID)
	require.NoError(t, err)
	assert.JSONEq(t, "{}", got.Result)
	assert.Equal(t, "", got.DocumentURL)

	rep.Score = 88
	rep.DocumentURL = "http://minio:9000/contracts/x"
	rep.Result = `{"summary":"s","inconsistencies":[],"redFlags":[],"overallScore":88}`
	require.NoError(t, repo.Save(ctx, rep))

	got, err = repo.Get(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, 88, got.Score)
	assert.Equal(t, rep.DocumentURL, got.DocumentURL)
	assert.Equal(t, rep.WorkspaceID, got.WorkspaceID)
	assert.JSONEq(t, rep.Result, got.Result)
	assert.WithinDuration(t, at, got.CreatedAt, time.Millisecond)

	_, err = repo.Get(ctx, domain.ReportID(uuid.NewString()))
	assert.ErrorIs(t, err, domain.ErrReportNotFound)
}

func TestPaginateNewestFirst(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	// far enough ahead to sort before rows left by other runs
	base := time.Now().UTC().AddDate(50, 0, 0).Truncate(time.Second)

	var ids []domain.ReportID
	for i := 0; i < 3; i++ {
		rep := newReport(t, repo, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Save(ctx, rep))
		ids = append(ids, rep.ID)
	}

	page, err := repo.Paginate(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	page, err = repo.Paginate(ctx, 2, 2)
	require.NoError(t, err)
	require.NotEmpty(t, page)
	assert.Equal(t, ids[0], page[0].ID)
}
