package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"strings"
	"testing"
	"time"
)

func TestClient_Probe_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))
	defer server.Close()

	result := NewClient().Probe(context.Background(), server.URL, 5*time.Second)

	if result.Err != nil {
		t.Fatalf("Probe() Err = %v, want nil", result.Err)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", result.StatusCode)
	}
	if result.Elapsed <= 0 {
		t.Errorf("Elapsed = %v, want > 0", result.Elapsed)
	}
	if result.Target != server.URL {
		t.Errorf("Target = %q, want %q", result.Target, server.URL)
	}
	if !result.OK() {
		t.Error("OK() = false, want true")
	}
}

func TestClient_Probe_NonOKStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result := NewClient().Probe(context.Background(), server.URL+"/missing", 5*time.Second)

	if result.Err != nil {
		t.Fatalf("Probe() Err = %v, want nil", result.Err)
	}
	if result.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", result.StatusCode)
	}
}

func TestClient_Probe_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // nothing listens on this port any more

	result := NewClient().Probe(context.Background(), url, 5*time.Second)

	assertFailureShape(t, result)
	if !strings.Contains(result.ErrorMessage(), "request failed") {
		t.Errorf("ErrorMessage() = %q, want it to contain 'request failed'", result.ErrorMessage())
	}
}

func TestClient_Probe_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	start := time.Now()
	result := NewClient().Probe(context.Background(), server.URL, 100*time.Millisecond)

	assertFailureShape(t, result)
	if time.Since(start) > 2*time.Second {
		t.Errorf("Probe() took %v, want it bounded by the timeout", time.Since(start))
	}
}

func TestClient_Probe_InvalidURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "control character", target: "http://exa\x7fmple.com"},
		{name: "unsupported scheme", target: "ftp://example.com"},
		{name: "empty", target: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewClient().Probe(context.Background(), tt.target, time.Second)
			assertFailureShape(t, result)
		})
	}
}

func TestClient_Probe_BodyIsDrained(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strings.Repeat("x", 64*1024)))
	}))
	defer server.Close()

	result := NewClient().Probe(context.Background(), server.URL, 5*time.Second)
	if result.Err != nil {
		t.Fatalf("Probe() Err = %v, want nil", result.Err)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", result.StatusCode)
	}
}

// TestClient_ConnectionReuse verifies that sequential probes of the same host
// reuse pooled connections.
func TestClient_ConnectionReuse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient()

	var reusedCount int
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Reused {
				reusedCount++
			}
		},
	}

	const numRequests = 5

	for i := 0; i < numRequests; i++ {
		ctx := httptrace.WithClientTrace(context.Background(), trace)
		result := client.Probe(ctx, server.URL, 5*time.Second)
		if result.Err != nil {
			t.Fatalf("request %d failed: %v", i, result.Err)
		}
	}

	expectedMinReuse := numRequests - 2 // allow some tolerance
	if reusedCount < expectedMinReuse {
		t.Errorf("expected at least %d reused connections, got %d out of %d requests",
			expectedMinReuse, reusedCount, numRequests)
	}
}

// TestClient_Close verifies that Close() is safe to call and idempotent.
func TestClient_Close(t *testing.T) {
	client := NewClient()

	client.Close()
	client.Close()
}

// TestClient_Close_NilClient verifies that Close() handles nil receiver safely.
func TestClient_Close_NilClient(t *testing.T) {
	var client *Client

	client.Close()
}

func TestRoundSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want float64
	}{
		{in: 0, want: 0},
		{in: 1231 * time.Millisecond, want: 1.23},
		{in: 1237 * time.Millisecond, want: 1.24},
		{in: 4 * time.Millisecond, want: 0},
		{in: 6 * time.Millisecond, want: 0.01},
		{in: 2 * time.Minute, want: 120},
	}

	for _, tt := range tests {
		if got := RoundSeconds(tt.in); got != tt.want {
			t.Errorf("RoundSeconds(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// assertFailureShape checks the failure shape of a result: no status, no
// elapsed time and a non-empty error message.
func assertFailureShape(t *testing.T, result CheckResult) {
	t.Helper()

	if result.Err == nil {
		t.Fatal("Err = nil, want an error")
	}
	if result.ErrorMessage() == "" {
		t.Error("ErrorMessage() is empty")
	}
	if result.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", result.StatusCode)
	}
	if result.Elapsed != 0 {
		t.Errorf("Elapsed = %v, want 0", result.Elapsed)
	}
	if result.OK() {
		t.Error("OK() = true, want false")
	}
}
