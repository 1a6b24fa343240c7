package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/dafibh/fintrack/fintrack-backend/internal/notify"
	"github.com/dafibh/fintrack/fintrack-backend/internal/repository/memory"
	"github.com/dafibh/fintrack/fintrack-backend/internal/testutil"
)

var serviceTestNow = testutil.FixedNow

func newLedger(t *testing.T, opts ...ledger.Option) *ledger.Store {
	t.Helper()
	return testutil.NewLedger(memory.NewKVStore(), opts...)
}

type scriptedCompleter struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	delay    time.Duration
}

func (c *scriptedCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return c.response, c.err
}

func (c *scriptedCompleter) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type recordingNotifier struct {
	sent chan notify.Notification
	err  error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan notify.Notification, 16)}
}

func (r *recordingNotifier) Notify(ctx context.Context, n notify.Notification) error {
	r.sent <- n
	return r.err
}
