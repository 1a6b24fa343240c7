package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/rs/zerolog"
)

// LastSaveTimestampKey records when the hosted store was last written
const LastSaveTimestampKey = "last_save_timestamp"

// DefaultHostedKVPrefix namespaces every key this service writes
const DefaultHostedKVPrefix = "fintrack_"

// SaveLedger is the part of the ledger a bulk save needs
type SaveLedger interface {
	Import(ctx context.Context, snap ledger.Snapshot) error
	Export() (map[string][]byte, error)
}

// SaveResult reports the outcome of a bulk save
type SaveResult struct {
	Keys    int       `json:"keys"`
	SavedAt time.Time `json:"savedAt"`
}

// HostedKVService passes key/value operations through to the hosted store under
// a fixed namespace and stamps every write
type HostedKVService struct {
	kv     domain.KVStore
	prefix string
	now    func() time.Time
	logger zerolog.Logger
}

func NewHostedKVService(kv domain.KVStore, prefix string, logger zerolog.Logger) *HostedKVService {
	if prefix == "" {
		prefix = DefaultHostedKVPrefix
	}
	return &HostedKVService{
		kv:     kv,
		prefix: prefix,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With().Str("component", "hosted_kv").Logger(),
	}
}

func (s *HostedKVService) key(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: key is required", domain.ErrInvalidInput)
	}
	return s.prefix + key, nil
}

func (s *HostedKVService) stamp(ctx context.Context) (time.Time, error) {
	now := s.now()
	if err := s.kv.Set(ctx, s.prefix+LastSaveTimestampKey, []byte(now.Format(time.RFC3339))); err != nil {
		return now, fmt.Errorf("failed to write save timestamp: %w", err)
	}
	return now, nil
}

func (s *HostedKVService) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := s.key(key)
	if err != nil {
		return nil, err
	}
	return s.kv.Get(ctx, k)
}

func (s *HostedKVService) Set(ctx context.Context, key string, value []byte) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, k, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	_, err = s.stamp(ctx)
	return err
}

func (s *HostedKVService) Delete(ctx context.Context, key string) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	if err := s.kv.Delete(ctx, k); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	_, err = s.stamp(ctx)
	return err
}

// List returns the keys under prefix, without the namespace
func (s *HostedKVService) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.kv.List(ctx, s.prefix+prefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, s.prefix))
	}
	return out, nil
}

// LastSave returns when the hosted store was last written
func (s *HostedKVService) LastSave(ctx context.Context) (time.Time, bool) {
	data, err := s.kv.Get(ctx, s.prefix+LastSaveTimestampKey)
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, string(data))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SaveData replaces the ledger with snap and mirrors every ledger document to the
// hosted store. A snapshot the ledger rejects is not mirrored.
func (s *HostedKVService) SaveData(ctx context.Context, l SaveLedger, snap ledger.Snapshot) (SaveResult, error) {
	if err := l.Import(ctx, snap); err != nil {
		return SaveResult{}, err
	}

	docs, err := l.Export()
	if err != nil {
		return SaveResult{}, err
	}
	for key, data := range docs {
		if err := s.kv.Set(ctx, s.prefix+key, data); err != nil {
			return SaveResult{}, fmt.Errorf("failed to write %s: %w", key, err)
		}
	}
	savedAt, err := s.stamp(ctx)
	if err != nil {
		return SaveResult{}, err
	}

	s.logger.Info().Int("keys", len(docs)).Msg("Saved ledger to hosted store")
	return SaveResult{Keys: len(docs), SavedAt: savedAt}, nil
}
