package settings

import (
	"context"
	stderrors "errors"

	"page-digest/core/errors"
)

// mockStorage is an in-memory implementation of the Storage interface
type mockStorage struct {
	data    map[string][]byte
	writes  []string
	deletes []string
	failKey string
}

func newMockStorage() *mockStorage {
	return &mockStorage{data: make(map[string][]byte)}
}

func (m *mockStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if key == m.failKey {
		return nil, stderrors.New("storage unavailable")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "key", ID: key}
	}
	return v, nil
}

func (m *mockStorage) Set(ctx context.Context, key string, value []byte) error {
	if key == m.failKey {
		return stderrors.New("storage unavailable")
	}
	m.writes = append(m.writes, key)
	m.data[key] = value
	return nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	m.deletes = append(m.deletes, key)
	delete(m.data, key)
	return nil
}

// mockLogger records warnings
type mockLogger struct {
	warns []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.warns = append(m.warns, msg) }
