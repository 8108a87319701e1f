package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Unknown is the location recorded when no coarse position is available.
const Unknown = "unknown"

// IPLocator asks an ip-api.com style endpoint for a coarse position of the
// client address. The lookup is best-effort and bounded by a deadline; every
// failure mode collapses to Unknown so a click is always recorded.
type IPLocator struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	logger   *slog.Logger
}

func NewIPLocator(endpoint string, timeout time.Duration, logger *slog.Logger) *IPLocator {
	return &IPLocator{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{},
		logger:   logger,
	}
}

type lookupResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Locate returns "lat,lon" rounded to 2 decimal places, or Unknown.
func (l *IPLocator) Locate(ctx context.Context, addr string) string {
	if l.endpoint == "" {
		return Unknown
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return Unknown
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint+"/"+ip.String(), nil)
	if err != nil {
		return Unknown
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.Debug("geo lookup failed", "error", err)
		return Unknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Unknown
	}

	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Unknown
	}
	if out.Status != "success" {
		return Unknown
	}

	return fmt.Sprintf("%.2f,%.2f", out.Lat, out.Lon)
}
