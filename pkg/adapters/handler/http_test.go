package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/tinylink/pkg/core/domain"
)

// stubResolver returns a canned resolution regardless of input.
type stubResolver struct {
	res  domain.Resolution
	code string
}

func (s *stubResolver) Resolve(_ context.Context, code string, _ domain.Visit) domain.Resolution {
	s.code = code
	return s.res
}

func TestRedirectStatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		resolution     domain.Resolution
		expectedStatus int
		expectedTarget string
	}{
		{
			name:           "redirecting issues 302 with location",
			resolution:     domain.Resolution{State: domain.StateRedirecting, TargetURL: "https://example.com"},
			expectedStatus: http.StatusFound,
			expectedTarget: "https://example.com",
		},
		{
			name:           "notfound maps to 404",
			resolution:     domain.Resolution{State: domain.StateNotFound, Message: "short link not found"},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "expired maps to 410",
			resolution:     domain.Resolution{State: domain.StateExpired, Message: "this short link has expired"},
			expectedStatus: http.StatusGone,
		},
		{
			name:           "error maps to 400",
			resolution:     domain.Resolution{State: domain.StateError, Message: "no shortcode provided"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &stubResolver{res: tt.resolution}
			h := NewHTTPHandler(nil, resolver, nil, 0)

			mux := http.NewServeMux()
			mux.HandleFunc("GET /{shortcode}", h.Redirect)

			req := httptest.NewRequest("GET", "/abcde", nil)
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			require.Equal(t, tt.expectedStatus, rr.Code)
			require.Equal(t, "abcde", resolver.code)
			if tt.expectedTarget != "" {
				require.Equal(t, tt.expectedTarget, rr.Header().Get("Location"))
			}
		})
	}
}
