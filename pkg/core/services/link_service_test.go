package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/tinylink/pkg/adapters/kv"
	"github.com/wadjakorntonsri/tinylink/pkg/adapters/repository"
	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*LinkService, *repository.LinkStore, *repository.EventLog) {
	t.Helper()
	mem := kv.NewMemory()
	sink := repository.NewEventLog(mem, testLogger())
	repo := repository.NewLinkStore(mem, sink, testLogger())
	return NewLinkService(repo, sink, "http://localhost:8080"), repo, sink
}

func TestCreateBatchCustomShortcode(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	result, err := svc.CreateBatch(ctx, []domain.SubmissionRow{
		{LongURL: "https://example.com/path", Shortcode: "  my-code_1  ", Validity: "60"},
	})
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	require.Len(t, result.Created, 1)
	require.Equal(t, "my-code_1", result.Created[0].Shortcode)
	require.Equal(t, "http://localhost:8080/my-code_1", result.Created[0].ShortURL)

	rec := repo.GetByShortcode(ctx, "my-code_1")
	require.NotNil(t, rec)
	require.True(t, rec.Meta.Custom)
	require.Equal(t, 60, rec.Meta.ValidityMinutes)
	require.Equal(t, 60*time.Minute, rec.ValidUntil.Sub(rec.CreatedAt))
	require.Empty(t, rec.Clicks)
}

func TestCreateBatchDefaultsValidity(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	tests := []struct {
		name     string
		validity string
	}{
		{name: "missing", validity: ""},
		{name: "non-numeric", validity: "soon"},
		{name: "zero", validity: "0"},
		{name: "negative", validity: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.CreateBatch(ctx, []domain.SubmissionRow{
				{LongURL: "https://example.com", Validity: tt.validity},
			})
			require.NoError(t, err)
			require.Len(t, result.Created, 1)

			rec := repo.GetByShortcode(ctx, result.Created[0].Shortcode)
			require.NotNil(t, rec)
			require.Equal(t, DefaultValidityMinutes, rec.Meta.ValidityMinutes)
			require.Equal(t, 30*time.Minute, rec.ValidUntil.Sub(rec.CreatedAt))
		})
	}
}

func TestCreateBatchRowValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	tests := []struct {
		name string
		row  domain.SubmissionRow
		msg  string
	}{
		{name: "empty URL", row: domain.SubmissionRow{LongURL: "   "}, msg: "original URL is required"},
		{name: "relative URL", row: domain.SubmissionRow{LongURL: "example.com/x"}, msg: "URL must be absolute and start with http:// or https://"},
		{name: "wrong scheme", row: domain.SubmissionRow{LongURL: "ftp://example.com"}, msg: "URL must be absolute and start with http:// or https://"},
		{name: "bad shortcode", row: domain.SubmissionRow{LongURL: "https://example.com", Shortcode: "ab"}, msg: "shortcode invalid (4-12 chars, letters/numbers/-/_)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.CreateBatch(ctx, []domain.SubmissionRow{tt.row})
			require.NoError(t, err)
			require.Empty(t, result.Created)
			require.Len(t, result.Errors, 1)
			require.Equal(t, 0, result.Errors[0].Row)
			require.Equal(t, tt.msg, result.Errors[0].Message)
		})
	}
}

func TestCreateBatchMixedRows(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	result, err := svc.CreateBatch(ctx, []domain.SubmissionRow{
		{LongURL: "https://example.com/one"},
		{LongURL: "not a url"},
		{LongURL: "https://example.com/three"},
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 2)
	require.Len(t, result.Errors, 1)
	require.Equal(t, 1, result.Errors[0].Row)

	// the failing row did not prevent its siblings from being persisted
	require.Len(t, repo.GetAll(ctx), 2)
}

func TestCreateBatchUniqueness(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	// store-wide collision
	first, err := svc.CreateBatch(ctx, []domain.SubmissionRow{
		{LongURL: "https://example.com", Shortcode: "taken123"},
	})
	require.NoError(t, err)
	require.Len(t, first.Created, 1)

	second, err := svc.CreateBatch(ctx, []domain.SubmissionRow{
		{LongURL: "https://example.com/other", Shortcode: "taken123"},
	})
	require.NoError(t, err)
	require.Empty(t, second.Created)
	require.Len(t, second.Errors, 1)
	require.Equal(t, "shortcode 'taken123' already in use", second.Errors[0].Message)

	// intra-batch collision: row 2 collides with row 0 of the same batch
	third, err := svc.CreateBatch(ctx, []domain.SubmissionRow{
		{LongURL: "https://example.com/a", Shortcode: "batch-code"},
		{LongURL: "https://example.com/b"},
		{LongURL: "https://example.com/c", Shortcode: "batch-code"},
	})
	require.NoError(t, err)
	require.Len(t, third.Created, 2)
	require.Len(t, third.Errors, 1)
	require.Equal(t, 2, third.Errors[0].Row)
}

func TestCreateBatchGeneratedCodesUnique(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	result, err := svc.CreateBatch(ctx, []domain.SubmissionRow{
		{LongURL: "https://example.com/1"},
		{LongURL: "https://example.com/2"},
		{LongURL: "https://example.com/3"},
		{LongURL: "https://example.com/4"},
		{LongURL: "https://example.com/5"},
	})
	require.NoError(t, err)
	require.Len(t, result.Created, 5)

	seen := make(map[string]bool)
	for _, c := range result.Created {
		require.False(t, seen[c.Shortcode], "generated shortcode %q repeated", c.Shortcode)
		seen[c.Shortcode] = true
		rec := repo.GetByShortcode(ctx, c.Shortcode)
		require.NotNil(t, rec)
		require.False(t, rec.Meta.Custom)
	}
}

func TestCreateBatchTooManyRows(t *testing.T) {
	svc, _, _ := newTestService(t)

	rows := make([]domain.SubmissionRow, MaxBatchRows+1)
	for i := range rows {
		rows[i] = domain.SubmissionRow{LongURL: "https://example.com"}
	}
	_, err := svc.CreateBatch(context.Background(), rows)
	require.ErrorIs(t, err, ErrTooManyRows)
}

func TestListLinksNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	old := time.Now().UTC().Add(-time.Hour)
	repo.Save(ctx, domain.LinkRecord{Shortcode: "older", CreatedAt: old, ValidUntil: old.Add(time.Hour)})
	recent := time.Now().UTC()
	repo.Save(ctx, domain.LinkRecord{Shortcode: "newer", CreatedAt: recent, ValidUntil: recent.Add(time.Hour)})

	all := svc.ListLinks(ctx)
	require.Len(t, all, 2)
	require.Equal(t, "newer", all[0].Shortcode)
	require.Equal(t, "older", all[1].Shortcode)
}

func TestClearLinks(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	_, err := svc.CreateBatch(ctx, []domain.SubmissionRow{{LongURL: "https://example.com"}})
	require.NoError(t, err)
	require.NotEmpty(t, repo.GetAll(ctx))

	svc.ClearLinks(ctx)
	require.Empty(t, repo.GetAll(ctx))
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.CreateBatch(ctx, []domain.SubmissionRow{
		{LongURL: "https://example.com", Shortcode: "keep-me"},
	})
	require.NoError(t, err)

	exported := svc.Export(ctx)
	require.Len(t, exported.URLs, 1)
	require.NotEmpty(t, exported.Logs)
	raw, err := json.Marshal(exported)
	require.NoError(t, err)

	// import into a fresh service and compare
	other, _, _ := newTestService(t)
	require.NoError(t, other.Import(ctx, raw))

	reimported := other.Export(ctx)
	require.Equal(t, exported, reimported)
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	_, err := svc.CreateBatch(ctx, []domain.SubmissionRow{{LongURL: "https://example.com"}})
	require.NoError(t, err)
	before := repo.GetAll(ctx)

	require.ErrorIs(t, svc.Import(ctx, []byte("{broken")), ErrInvalidSnapshot)
	require.Equal(t, before, repo.GetAll(ctx)) // nothing applied
}

func TestImportSkipsNonArrayFields(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	_, err := svc.CreateBatch(ctx, []domain.SubmissionRow{{LongURL: "https://example.com"}})
	require.NoError(t, err)
	before := repo.GetAll(ctx)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "string and number", raw: `{"urls":"nope","logs":42}`},
		{name: "null fields", raw: `{"urls":null,"logs":null}`},
		{name: "object fields", raw: `{"urls":{},"logs":{}}`},
		{name: "missing fields", raw: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, svc.Import(ctx, []byte(tt.raw)))
			require.Equal(t, before, repo.GetAll(ctx))
		})
	}
}
