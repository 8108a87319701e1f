package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

// urlsKey is the key the links collection is stored under.
const urlsKey = "tinylink:urls"

// LinkStore keeps the whole links collection as one JSON array in the KV
// backend. Every operation reads the full collection, mutates it in memory
// and writes it back; a single mutex serializes those read-modify-write
// cycles.
//
// Storage failures never surface: reads degrade to an empty collection and
// writes are dropped. Both paths leave a diagnostic in the slog logger so the
// condition is at least observable.
type LinkStore struct {
	kv     ports.KV
	sink   ports.EventSink
	logger *slog.Logger
	mu     sync.Mutex
}

func NewLinkStore(kv ports.KV, sink ports.EventSink, logger *slog.Logger) *LinkStore {
	return &LinkStore{kv: kv, sink: sink, logger: logger}
}

func (s *LinkStore) GetAll(ctx context.Context) []domain.LinkRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll(ctx)
}

func (s *LinkStore) GetByShortcode(ctx context.Context, code string) *domain.LinkRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.readAll(ctx) {
		if rec.Shortcode == code {
			return &rec
		}
	}
	return nil
}

func (s *LinkStore) Exists(ctx context.Context, code string) bool {
	return s.GetByShortcode(ctx, code) != nil
}

// Save appends the record. Shortcode uniqueness is the caller's precondition.
func (s *LinkStore) Save(ctx context.Context, record domain.LinkRecord) {
	s.mu.Lock()
	all := append(s.readAll(ctx), record)
	s.writeAll(ctx, all)
	s.mu.Unlock()

	s.sink.Record(ctx, "url.saved", map[string]any{
		"shortcode": record.Shortcode,
		"createdAt": record.CreatedAt,
	})
}

func (s *LinkStore) AddClick(ctx context.Context, code string, click domain.ClickEvent) *domain.LinkRecord {
	s.mu.Lock()
	all := s.readAll(ctx)
	idx := -1
	for i := range all {
		if all[i].Shortcode == code {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return nil
	}
	all[idx].Clicks = append(all[idx].Clicks, click)
	s.writeAll(ctx, all)
	updated := all[idx]
	s.mu.Unlock()

	s.sink.Record(ctx, "url.clicked", map[string]any{
		"shortcode": code,
		"newTotal":  len(updated.Clicks),
	})
	return &updated
}

func (s *LinkStore) Delete(ctx context.Context, code string) {
	s.mu.Lock()
	all := s.readAll(ctx)
	kept := all[:0]
	for _, rec := range all {
		if rec.Shortcode != code {
			kept = append(kept, rec)
		}
	}
	s.writeAll(ctx, kept)
	s.mu.Unlock()

	s.sink.Record(ctx, "url.deleted", map[string]any{"shortcode": code})
}

func (s *LinkStore) ClearAll(ctx context.Context) {
	s.mu.Lock()
	if err := s.kv.Delete(ctx, urlsKey); err != nil {
		s.logger.Warn("link store clear dropped", "error", err)
	}
	s.mu.Unlock()

	s.sink.Record(ctx, "storage.cleared", map[string]any{})
}

func (s *LinkStore) ReplaceAll(ctx context.Context, records []domain.LinkRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeAll(ctx, records)
}

func (s *LinkStore) readAll(ctx context.Context) []domain.LinkRecord {
	raw, ok, err := s.kv.Get(ctx, urlsKey)
	if err != nil {
		s.logger.Warn("link store read failed, treating as empty", "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var records []domain.LinkRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.Warn("link store content unreadable, treating as empty", "error", err)
		return nil
	}
	return records
}

func (s *LinkStore) writeAll(ctx context.Context, records []domain.LinkRecord) {
	if records == nil {
		records = []domain.LinkRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		s.logger.Warn("link store encode failed, write dropped", "error", err)
		return
	}
	if err := s.kv.Set(ctx, urlsKey, string(raw)); err != nil {
		s.logger.Warn("link store write dropped", "error", err)
	}
}

// Ensure interface compliance
var _ ports.LinkRepository = (*LinkStore)(nil)
