package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

// logsKey is the key the event log collection is stored under.
const logsKey = "tinylink:logs"

// EventLog is the side-channel sink. Record appends one entry to the log
// collection and swallows every failure; a sink problem must never alter the
// outcome of the operation that emitted the event.
type EventLog struct {
	kv     ports.KV
	logger *slog.Logger
	mu     sync.Mutex
}

func NewEventLog(kv ports.KV, logger *slog.Logger) *EventLog {
	return &EventLog{kv: kv, logger: logger}
}

func (l *EventLog) Record(ctx context.Context, event string, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	now := time.Now().UTC()
	entry := domain.LogEvent{
		ID:      newEventID(now),
		TS:      now,
		Event:   event,
		Payload: payload,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeAll(ctx, append(l.readAll(ctx), entry))
}

func (l *EventLog) Logs(ctx context.Context) []domain.LogEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAll(ctx)
}

func (l *EventLog) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.kv.Delete(ctx, logsKey); err != nil {
		l.logger.Warn("event log clear dropped", "error", err)
	}
}

func (l *EventLog) ReplaceAll(ctx context.Context, events []domain.LogEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeAll(ctx, events)
}

func (l *EventLog) readAll(ctx context.Context) []domain.LogEvent {
	raw, ok, err := l.kv.Get(ctx, logsKey)
	if err != nil {
		l.logger.Warn("event log read failed, treating as empty", "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var events []domain.LogEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		l.logger.Warn("event log content unreadable, treating as empty", "error", err)
		return nil
	}
	return events
}

func (l *EventLog) writeAll(ctx context.Context, events []domain.LogEvent) {
	if events == nil {
		events = []domain.LogEvent{}
	}
	raw, err := json.Marshal(events)
	if err != nil {
		l.logger.Warn("event log encode failed, write dropped", "error", err)
		return
	}
	if err := l.kv.Set(ctx, logsKey, string(raw)); err != nil {
		l.logger.Warn("event log write dropped", "error", err)
	}
}

// newEventID builds a unique id from the creation instant plus a random
// suffix, so entries from the same millisecond cannot collide.
func newEventID(ts time.Time) string {
	return fmt.Sprintf("%d-%s", ts.UnixMilli(), uuid.NewString()[:8])
}

// Ensure interface compliance
var _ ports.EventSink = (*EventLog)(nil)
