package summarize

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"page-digest/core/errors"
	"page-digest/core/interfaces"
)

// mockHTTPClient is a mock implementation of the HTTPClient interface
type mockHTTPClient struct {
	mu       sync.Mutex
	calls    int
	lastBody string
	lastHdr  map[string]string
	postFunc func(ctx context.Context, url string, body io.Reader, headers map[string]string) (interfaces.Response, error)
}

func (m *mockHTTPClient) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (interfaces.Response, error) {
	data, _ := io.ReadAll(body)
	m.mu.Lock()
	m.calls++
	m.lastBody = string(data)
	m.lastHdr = headers
	m.mu.Unlock()
	if m.postFunc != nil {
		return m.postFunc(ctx, url, strings.NewReader(string(data)), headers)
	}
	return nil, nil
}

func respondWith(status int, body string) func(context.Context, string, io.Reader, map[string]string) (interfaces.Response, error) {
	return func(context.Context, string, io.Reader, map[string]string) (interfaces.Response, error) {
		return &mockResponse{statusCode: status, body: body}, nil
	}
}

// mockResponse is a mock implementation of the Response interface
type mockResponse struct {
	statusCode int
	body       string
	headers    map[string]string
}

func (m *mockResponse) StatusCode() int {
	return m.statusCode
}

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(strings.NewReader(m.body))
}

func (m *mockResponse) Header(key string) string {
	if m.headers != nil {
		return m.headers[key]
	}
	return ""
}

// mockStorage is an in-memory implementation of the Storage interface
type mockStorage struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockStorage() *mockStorage {
	return &mockStorage{data: make(map[string][]byte)}
}

func (m *mockStorage) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "key", ID: key}
	}
	return v, nil
}

func (m *mockStorage) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockStorage) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// mockLogger records messages by level
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

// mockPrompter counts credential prompts
type mockPrompter struct {
	requests int
}

func (m *mockPrompter) RequestCredential() {
	m.requests++
}

// mockMetrics records calls
type mockMetrics struct {
	cacheHits int
	tokensIn  int64
	tokensOut int64
	latencies int
}

func (m *mockMetrics) DigestCompleted(mode, outcome string) {}
func (m *mockMetrics) CacheHit(mode string)                 { m.cacheHits++ }
func (m *mockMetrics) BackendLatency(d time.Duration)       { m.latencies++ }

func (m *mockMetrics) TokensUsed(input, output int64) {
	m.tokensIn += input
	m.tokensOut += output
}
