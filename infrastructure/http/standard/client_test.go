package standard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewStandardHTTPClient(t *testing.T) {
	timeout := 10 * time.Second
	client := NewStandardHTTPClient(timeout)

	if client == nil {
		t.Fatal("NewStandardHTTPClient returned nil")
	}
	if client.client.Timeout != timeout {
		t.Errorf("Client timeout = %v, want %v", client.client.Timeout, timeout)
	}
}

func TestStandardHTTPClient_Post_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"input":"x"}` {
			t.Errorf("body = %q", body)
		}

		w.Header().Set("X-Request-Id", "req-1")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"output_text":"ok"}`))
	}))
	defer server.Close()

	client := NewStandardHTTPClient(10 * time.Second)
	resp, err := client.Post(context.Background(), server.URL, strings.NewReader(`{"input":"x"}`),
		map[string]string{"Authorization": "Bearer sk-test"})
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	defer resp.Body().Close()

	if resp.StatusCode() != http.StatusOK {
		t.Errorf("StatusCode = %d, want %d", resp.StatusCode(), http.StatusOK)
	}
	if resp.Header("X-Request-Id") != "req-1" {
		t.Errorf("Header = %q", resp.Header("X-Request-Id"))
	}
	body, _ := io.ReadAll(resp.Body())
	if string(body) != `{"output_text":"ok"}` {
		t.Errorf("body = %q", body)
	}
}

func TestStandardHTTPClient_Post_NoRetryOnServerError(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resp, err := NewStandardHTTPClient(time.Second).Post(context.Background(), server.URL, strings.NewReader("{}"), nil)
	if err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	resp.Body().Close()

	if resp.StatusCode() != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", resp.StatusCode())
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("hits = %d, want exactly one attempt", hits)
	}
}

func TestStandardHTTPClient_Post_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := NewStandardHTTPClient(time.Second).Post(ctx, server.URL, strings.NewReader("{}"), nil); err == nil {
		t.Error("Post should fail when the context expires")
	}
}

func TestStandardHTTPClient_RateLimitWaitHonoursContext(t *testing.T) {
	client := NewStandardHTTPClient(time.Second).WithRateLimit(0.001, 1)
	client.limiter.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := client.Post(ctx, "http://127.0.0.1:1", strings.NewReader("{}"), nil); err == nil {
		t.Error("Post should fail while the limiter has no tokens")
	}
}
