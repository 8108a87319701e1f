package geo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocateRoundsToTwoDecimals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","lat":13.7563309,"lon":100.5017651}`))
	}))
	defer srv.Close()

	l := NewIPLocator(srv.URL, time.Second, testLogger())
	require.Equal(t, "13.76,100.50", l.Locate(context.Background(), "8.8.8.8:51234"))
}

func TestLocateUnknownFallbacks(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail"}`))
	}))
	defer failing.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"status":"success","lat":1,"lon":2}`))
	}))
	defer slow.Close()

	tests := []struct {
		name     string
		endpoint string
		timeout  time.Duration
		addr     string
	}{
		{name: "no endpoint configured", endpoint: "", timeout: time.Second, addr: "8.8.8.8:1"},
		{name: "loopback address", endpoint: failing.URL, timeout: time.Second, addr: "127.0.0.1:1"},
		{name: "private address", endpoint: failing.URL, timeout: time.Second, addr: "192.168.1.7:1"},
		{name: "unparsable address", endpoint: failing.URL, timeout: time.Second, addr: "not-an-ip"},
		{name: "provider reports failure", endpoint: failing.URL, timeout: time.Second, addr: "8.8.8.8:1"},
		{name: "lookup times out", endpoint: slow.URL, timeout: 20 * time.Millisecond, addr: "8.8.8.8:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewIPLocator(tt.endpoint, tt.timeout, testLogger())
			require.Equal(t, Unknown, l.Locate(context.Background(), tt.addr))
		})
	}
}
