package services

import (
	"context"
	"strings"
	"time"

	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

// ResolverService decides the outcome of a shortcode visit: reject it, expire
// it, or capture a click and hand back the redirect target. Each transition
// leaves one event in the sink; sink failures never change the outcome.
type ResolverService struct {
	repo    ports.LinkRepository
	sink    ports.EventSink
	locator ports.Locator
}

func NewResolverService(repo ports.LinkRepository, sink ports.EventSink, locator ports.Locator) *ResolverService {
	return &ResolverService{repo: repo, sink: sink, locator: locator}
}

// Resolve evaluates the transition rules once for the given lookup.
func (s *ResolverService) Resolve(ctx context.Context, code string, visit domain.Visit) domain.Resolution {
	if code == "" {
		s.sink.Record(ctx, "redirect.failed.no_shortcode", nil)
		return domain.Resolution{State: domain.StateError, Message: "no shortcode provided"}
	}

	record := s.repo.GetByShortcode(ctx, code)
	if record == nil {
		s.sink.Record(ctx, "redirect.failed.not_found", map[string]any{"shortcode": code})
		return domain.Resolution{State: domain.StateNotFound, Message: "short link not found"}
	}

	now := time.Now().UTC()
	if record.Expired(now) {
		s.sink.Record(ctx, "redirect.failed.expired", map[string]any{
			"shortcode":  code,
			"validUntil": record.ValidUntil,
		})
		return domain.Resolution{State: domain.StateExpired, Message: "this short link has expired"}
	}

	// capturing: build the click from what the request carried
	click := domain.ClickEvent{
		TS:       now,
		Source:   clickSource(visit),
		Location: s.locate(ctx, visit.RemoteAddr),
	}
	s.repo.AddClick(ctx, code, click)
	s.sink.Record(ctx, "redirect.success", map[string]any{
		"shortcode": code,
		"click":     click,
	})

	return domain.Resolution{
		State:     domain.StateRedirecting,
		Message:   "redirecting",
		TargetURL: record.OriginalURL,
	}
}

func (s *ResolverService) locate(ctx context.Context, addr string) string {
	if s.locator == nil || addr == "" {
		return "unknown"
	}
	return s.locator.Locate(ctx, addr)
}

func clickSource(visit domain.Visit) string {
	var parts []string
	if visit.Referrer != "" {
		parts = append(parts, "ref:"+visit.Referrer)
	}
	if visit.UserAgent != "" {
		parts = append(parts, visit.UserAgent)
	}
	return strings.Join(parts, " | ")
}

// Ensure interface compliance
var _ ports.ResolverService = (*ResolverService)(nil)
