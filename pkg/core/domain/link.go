package domain

import "time"

// LinkRecord binds a shortcode to its original URL, the validity window and
// the accumulated click history. JSON field names follow the snapshot
// interchange format, so an exported file round-trips byte-compatibly.
type LinkRecord struct {
	Shortcode   string       `json:"shortcode"`
	OriginalURL string       `json:"originalUrl"`
	CreatedAt   time.Time    `json:"createdAt"`
	ValidUntil  time.Time    `json:"validUntil"` // CreatedAt + Meta.ValidityMinutes, immutable
	Clicks      []ClickEvent `json:"clicks"`     // append-only, insertion order preserved
	Meta        Meta         `json:"meta"`
}

// ClickEvent is one recorded visit to a shortcode's redirect endpoint.
type ClickEvent struct {
	TS       time.Time `json:"ts"`
	Source   string    `json:"source"`   // referrer + user agent, may be empty
	Location string    `json:"location"` // "lat,lon" rounded to 2 decimals, or "unknown"
}

type Meta struct {
	Custom          bool `json:"custom"`
	ValidityMinutes int  `json:"validityMinutes"`
}

// Expired reports whether the validity window has closed at the given instant.
// The window is half-open: a record whose ValidUntil equals now is expired.
func (r LinkRecord) Expired(now time.Time) bool {
	return !r.ValidUntil.After(now)
}
