package domain

// ResolveState is a state of the redirect resolution flow. Checking and
// Capturing are transient; the rest are terminal.
type ResolveState string

const (
	StateChecking    ResolveState = "checking"
	StateError       ResolveState = "error"
	StateNotFound    ResolveState = "notfound"
	StateExpired     ResolveState = "expired"
	StateCapturing   ResolveState = "capturing"
	StateRedirecting ResolveState = "redirecting"
)

// Visit carries the request-side facts a click event is built from.
type Visit struct {
	Referrer   string
	UserAgent  string
	RemoteAddr string
}

// Resolution is the outcome of resolving one shortcode lookup.
type Resolution struct {
	State     ResolveState `json:"state"`
	Message   string       `json:"message"`
	TargetURL string       `json:"target_url,omitempty"`
}
