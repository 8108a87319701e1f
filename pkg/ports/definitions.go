package ports

import (
	"context"

	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
)

// KV is the key-value contract both persisted collections live behind.
// Values are whole JSON-encoded collections; there is no partial patching.
type KV interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LinkRepository defines storage operations for link records.
//
// The API is deliberately fail-soft: storage failures degrade to an empty
// collection on read and are absorbed on write, never surfacing to callers.
// Implementations must serialize the whole-collection read-modify-write of
// every mutating operation.
type LinkRepository interface {
	GetAll(ctx context.Context) []domain.LinkRecord
	GetByShortcode(ctx context.Context, code string) *domain.LinkRecord
	Exists(ctx context.Context, code string) bool
	// Save appends a record. The caller must have ensured shortcode
	// uniqueness beforehand; the store performs no check of its own.
	Save(ctx context.Context, record domain.LinkRecord)
	// AddClick appends a click to the record's history and returns the
	// updated record, or nil when the shortcode is absent.
	AddClick(ctx context.Context, code string, click domain.ClickEvent) *domain.LinkRecord
	Delete(ctx context.Context, code string)
	ClearAll(ctx context.Context)
	// ReplaceAll swaps the whole collection, for snapshot import.
	ReplaceAll(ctx context.Context, records []domain.LinkRecord)
}

// EventSink is the one-way side-channel event logger. Record is
// fire-and-forget: failures are swallowed and never reach the caller.
type EventSink interface {
	Record(ctx context.Context, event string, payload map[string]any)
	Logs(ctx context.Context) []domain.LogEvent
	Clear(ctx context.Context)
	ReplaceAll(ctx context.Context, events []domain.LogEvent)
}

// Locator resolves a coarse "lat,lon" location for a client address within a
// bounded deadline, or "unknown" on timeout, denial or absence.
type Locator interface {
	Locate(ctx context.Context, addr string) string
}

// LinkService defines the business logic operations around link records.
type LinkService interface {
	CreateBatch(ctx context.Context, rows []domain.SubmissionRow) (*domain.BatchResult, error)
	ListLinks(ctx context.Context) []domain.LinkRecord
	DeleteLink(ctx context.Context, code string)
	ClearLinks(ctx context.Context)
	Export(ctx context.Context) domain.Snapshot
	Import(ctx context.Context, raw []byte) error
}

// ResolverService runs the redirect resolution flow for one shortcode lookup.
type ResolverService interface {
	Resolve(ctx context.Context, code string, visit domain.Visit) domain.Resolution
}
