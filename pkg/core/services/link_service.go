package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
	"github.com/wadjakorntonsri/tinylink/pkg/core/shortcode"
	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

const (
	// DefaultValidityMinutes applies when a row carries no usable validity.
	DefaultValidityMinutes = 30
	// MaxBatchRows caps one submission batch.
	MaxBatchRows = 5
)

var (
	ErrTooManyRows     = fmt.Errorf("a batch may contain at most %d rows", MaxBatchRows)
	ErrInvalidSnapshot = errors.New("snapshot is not valid JSON")
)

type LinkService struct {
	repo    ports.LinkRepository
	sink    ports.EventSink
	baseURL string
}

func NewLinkService(repo ports.LinkRepository, sink ports.EventSink, baseURL string) *LinkService {
	return &LinkService{repo: repo, sink: sink, baseURL: strings.TrimRight(baseURL, "/")}
}

// CreateBatch processes up to MaxBatchRows submission rows. Rows are
// independent: a failing row records an error and never aborts its siblings,
// and each successful row is persisted immediately, so earlier saves survive
// later failures. Uniqueness is checked against the store and against codes
// already assigned earlier in the same batch.
func (s *LinkService) CreateBatch(ctx context.Context, rows []domain.SubmissionRow) (*domain.BatchResult, error) {
	if len(rows) > MaxBatchRows {
		return nil, ErrTooManyRows
	}

	result := &domain.BatchResult{
		Created: []domain.CreatedLink{},
		Errors:  []domain.RowError{},
	}
	assigned := make(map[string]bool)

	for i, row := range rows {
		longURL := strings.TrimSpace(row.LongURL)
		if longURL == "" {
			result.Errors = append(result.Errors, domain.RowError{Row: i, Message: "original URL is required"})
			continue
		}
		if !isValidURL(longURL) {
			result.Errors = append(result.Errors, domain.RowError{Row: i, Message: "URL must be absolute and start with http:// or https://"})
			continue
		}

		minutes := parseValidity(row.Validity)
		custom := strings.TrimSpace(row.Shortcode) != ""

		var code string
		if custom {
			value, err := shortcode.ValidateCustom(row.Shortcode)
			if err != nil {
				result.Errors = append(result.Errors, domain.RowError{Row: i, Message: "shortcode invalid (4-12 chars, letters/numbers/-/_)"})
				continue
			}
			if assigned[value] || s.repo.Exists(ctx, value) {
				result.Errors = append(result.Errors, domain.RowError{Row: i, Message: fmt.Sprintf("shortcode '%s' already in use", value)})
				continue
			}
			code = value
		} else {
			generated, err := shortcode.GenerateUnique(func(c string) bool {
				return assigned[c] || s.repo.Exists(ctx, c)
			})
			if err != nil {
				result.Errors = append(result.Errors, domain.RowError{Row: i, Message: "could not generate a shortcode"})
				continue
			}
			code = generated
		}

		now := time.Now().UTC()
		record := domain.LinkRecord{
			Shortcode:   code,
			OriginalURL: longURL,
			CreatedAt:   now,
			ValidUntil:  now.Add(time.Duration(minutes) * time.Minute),
			Clicks:      []domain.ClickEvent{},
			Meta:        domain.Meta{Custom: custom, ValidityMinutes: minutes},
		}

		s.repo.Save(ctx, record)
		s.sink.Record(ctx, "shorten.created", map[string]any{
			"shortcode":       code,
			"originalUrl":     longURL,
			"validityMinutes": minutes,
		})

		assigned[code] = true
		result.Created = append(result.Created, domain.CreatedLink{
			Shortcode:  code,
			ShortURL:   s.baseURL + "/" + code,
			ValidUntil: record.ValidUntil,
		})
	}

	return result, nil
}

// ListLinks returns all records, newest first.
func (s *LinkService) ListLinks(ctx context.Context) []domain.LinkRecord {
	all := s.repo.GetAll(ctx)
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	s.sink.Record(ctx, "stats.viewed", map[string]any{"count": len(all)})
	return all
}

func (s *LinkService) DeleteLink(ctx context.Context, code string) {
	s.repo.Delete(ctx, code)
}

func (s *LinkService) ClearLinks(ctx context.Context) {
	s.repo.ClearAll(ctx)
}

// Export reads both collections into one snapshot document.
func (s *LinkService) Export(ctx context.Context) domain.Snapshot {
	snap := domain.Snapshot{
		URLs: s.repo.GetAll(ctx),
		Logs: s.sink.Logs(ctx),
	}
	if snap.URLs == nil {
		snap.URLs = []domain.LinkRecord{}
	}
	if snap.Logs == nil {
		snap.Logs = []domain.LogEvent{}
	}
	return snap
}

// Import replaces each collection wholesale when the corresponding snapshot
// field is an array; a field of any other shape is skipped. Malformed JSON
// rejects the document before anything is applied.
func (s *LinkService) Import(ctx context.Context, raw []byte) error {
	var snap struct {
		URLs json.RawMessage `json:"urls"`
		Logs json.RawMessage `json:"logs"`
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return ErrInvalidSnapshot
	}

	if isJSONArray(snap.URLs) {
		var records []domain.LinkRecord
		if err := json.Unmarshal(snap.URLs, &records); err == nil {
			s.repo.ReplaceAll(ctx, records)
		}
	}
	if isJSONArray(snap.Logs) {
		var events []domain.LogEvent
		if err := json.Unmarshal(snap.Logs, &events); err == nil {
			s.sink.ReplaceAll(ctx, events)
		}
	}
	return nil
}

// isJSONArray reports whether the raw field holds an array literal. A null
// field unmarshals into a nil slice without error, so shape is checked on the
// raw bytes to keep null from counting as an empty collection.
func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b == '['
		}
	}
	return false
}

func isValidURL(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// parseValidity turns the raw validity text into minutes, defaulting when
// missing, non-numeric or not positive.
func parseValidity(raw string) int {
	minutes, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || minutes <= 0 {
		return DefaultValidityMinutes
	}
	return minutes
}

// Ensure interface compliance
var _ ports.LinkService = (*LinkService)(nil)
