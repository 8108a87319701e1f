package domain

import "time"

// SubmissionRow is one row of a shorten request. Validity is kept as raw text:
// anything that does not parse as a positive integer falls back to the default.
type SubmissionRow struct {
	LongURL   string `json:"long_url"`
	Shortcode string `json:"shortcode,omitempty"`
	Validity  string `json:"validity,omitempty"`
}

// CreatedLink is the per-row success result of a batch submission.
type CreatedLink struct {
	Shortcode  string    `json:"shortcode"`
	ShortURL   string    `json:"shortUrl"`
	ValidUntil time.Time `json:"validUntil"`
}

// RowError is a row-scoped validation failure. Row is the zero-based index of
// the offending submission row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// BatchResult reports both sets after a batch has been processed; a mix of
// successes and failures is allowed.
type BatchResult struct {
	Created []CreatedLink `json:"created"`
	Errors  []RowError    `json:"errors"`
}
