package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/rs/zerolog"
)

// FixedNow is the clock used by test ledgers: 2024-01-15 10:00 UTC
var FixedNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

// MockKVStore is a mock implementation of domain.KVStore
type MockKVStore struct {
	Data  map[string][]byte
	mu    sync.Mutex
	GetFn func(key string) ([]byte, error)
	SetFn func(key string, value []byte) error
}

// NewMockKVStore creates a new MockKVStore
func NewMockKVStore() *MockKVStore {
	return &MockKVStore{Data: make(map[string][]byte)}
}

// Get returns the stored value or domain.ErrKeyNotFound
func (m *MockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFn != nil {
		return m.GetFn(key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value
func (m *MockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.SetFn != nil {
		return m.SetFn(key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key
func (m *MockKVStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	return nil
}

// List returns the sorted keys under prefix
func (m *MockKVStore) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := []string{}
	for k := range m.Data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// MockCompleter is a mock implementation of ai.Completer
type MockCompleter struct {
	Response string
	Err      error
	mu       sync.Mutex
	Prompts  []string
}

// Complete records the prompt and returns the canned response
func (m *MockCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	return m.Response, m.Err
}

// Calls returns how many completions were requested
func (m *MockCompleter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// SequentialIDs returns an id generator producing id-1, id-2, ...
func SequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// NewLedger creates a ledger over kv with a fixed clock, sequential ids and a silent logger
func NewLedger(kv domain.KVStore, opts ...ledger.Option) *ledger.Store {
	base := []ledger.Option{
		ledger.WithClock(func() time.Time { return FixedNow }),
		ledger.WithIDGenerator(SequentialIDs()),
		ledger.WithLogger(zerolog.Nop()),
	}
	return ledger.NewStore(context.Background(), kv, append(base, opts...)...)
}
