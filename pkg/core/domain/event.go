package domain

import "time"

// LogEvent is one entry in the side-channel event log.
type LogEvent struct {
	ID      string         `json:"id"` // creation millis plus a random suffix
	TS      time.Time      `json:"ts"`
	Event   string         `json:"event"`
	Payload map[string]any `json:"payload"`
}

// Snapshot is the bulk interchange document: both persisted collections,
// exported and imported wholesale.
type Snapshot struct {
	URLs []LinkRecord `json:"urls"`
	Logs []LogEvent   `json:"logs"`
}
