package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/wadjakorntonsri/tinylink/pkg/config"
	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, links ports.LinkService, resolver ports.ResolverService, sink ports.EventSink, logger *slog.Logger) http.Handler {
	h := NewHTTPHandler(links, resolver, sink, cfg.RedirectDelay)
	mw := NewMiddleware(logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		res := map[string]string{
			"message": "ok",
		}
		_ = json.NewEncoder(w).Encode(&res)
	})

	mux.HandleFunc("POST /api/v1/links", h.Create)
	mux.HandleFunc("GET /api/v1/links", h.List)
	mux.HandleFunc("DELETE /api/v1/links/{shortcode}", h.Delete)
	mux.HandleFunc("DELETE /api/v1/links", h.Clear)

	mux.HandleFunc("GET /api/v1/logs", h.Logs)
	mux.HandleFunc("DELETE /api/v1/logs", h.ClearLogs)

	mux.HandleFunc("GET /api/v1/export", h.Export)
	mux.HandleFunc("POST /api/v1/import", h.Import)

	// resolver route; single path segment only, so API paths never collide
	mux.HandleFunc("GET /{shortcode}", h.Redirect)

	return mw.RequestLogger(mux)
}
