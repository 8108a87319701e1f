package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
	"github.com/wadjakorntonsri/tinylink/pkg/core/services"
	"github.com/wadjakorntonsri/tinylink/pkg/ports"
)

// maxImportBytes caps a snapshot upload.
const maxImportBytes = 10 << 20

type HTTPHandler struct {
	links         ports.LinkService
	resolver      ports.ResolverService
	sink          ports.EventSink
	redirectDelay time.Duration
}

func NewHTTPHandler(links ports.LinkService, resolver ports.ResolverService, sink ports.EventSink, redirectDelay time.Duration) *HTTPHandler {
	return &HTTPHandler{
		links:         links,
		resolver:      resolver,
		sink:          sink,
		redirectDelay: redirectDelay,
	}
}

// Create accepts a batch of up to 5 submission rows.
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rows []domain.SubmissionRow
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.links.CreateBatch(r.Context(), rows)
	if err != nil {
		if errors.Is(err, services.ErrTooManyRows) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// 201 only when every row made it; mixed batches still report both sets
	status := http.StatusOK
	if len(result.Errors) == 0 && len(result.Created) > 0 {
		status = http.StatusCreated
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}

// List returns all link records, newest first.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	links := h.links.ListLinks(r.Context())

	resp := map[string]interface{}{
		"data":  links,
		"total": len(links),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Delete removes one link record; absent shortcodes are a no-op.
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("shortcode")
	if code == "" {
		http.Error(w, "Short code missing", http.StatusBadRequest)
		return
	}
	h.links.DeleteLink(r.Context(), code)
	w.WriteHeader(http.StatusNoContent)
}

// Clear empties the whole links collection.
func (h *HTTPHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.links.ClearLinks(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Logs returns the side-channel event log.
func (h *HTTPHandler) Logs(w http.ResponseWriter, r *http.Request) {
	logs := h.sink.Logs(r.Context())
	if logs == nil {
		logs = []domain.LogEvent{}
	}

	resp := map[string]interface{}{
		"data":  logs,
		"total": len(logs),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *HTTPHandler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	h.sink.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Export streams the snapshot document as a downloadable file.
func (h *HTTPHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap := h.links.Export(r.Context())

	filename := fmt.Sprintf("tinylink-export-%s.json", time.Now().UTC().Format("2006-01-02T15-04-05"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(snap)
}

// Import replaces both collections from an uploaded snapshot.
func (h *HTTPHandler) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if err := h.links.Import(r.Context(), raw); err != nil {
		http.Error(w, "Invalid JSON file", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Redirect resolves a shortcode visit and maps the terminal state onto an
// HTTP response. Only redirecting navigates; the failure states answer with a
// JSON body carrying the state and a user-facing message.
func (h *HTTPHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("shortcode")

	res := h.resolver.Resolve(r.Context(), code, domain.Visit{
		Referrer:   r.Referer(),
		UserAgent:  r.UserAgent(),
		RemoteAddr: r.RemoteAddr,
	})

	switch res.State {
	case domain.StateRedirecting:
		if h.redirectDelay > 0 {
			// brief pause so the click log flush is observable, mirroring
			// the short on-screen delay before navigation
			time.Sleep(h.redirectDelay)
		}
		http.Redirect(w, r, res.TargetURL, http.StatusFound)
	case domain.StateNotFound:
		writeResolution(w, http.StatusNotFound, res)
	case domain.StateExpired:
		writeResolution(w, http.StatusGone, res)
	default:
		writeResolution(w, http.StatusBadRequest, res)
	}
}

func writeResolution(w http.ResponseWriter, status int, res domain.Resolution) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}
