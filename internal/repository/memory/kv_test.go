package memory

import (
	"context"
	"testing"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewKVStore()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "incomes_2024-01", []byte(`[]`)))
	require.NoError(t, kv.Set(ctx, "expenses_2024-01", []byte(`[1]`)))
	require.NoError(t, kv.Set(ctx, "goals", []byte(`[]`)))

	v, err := kv.Get(ctx, "expenses_2024-01")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(v))

	keys, err := kv.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"expenses_2024-01", "goals", "incomes_2024-01"}, keys)

	keys, err = kv.List(ctx, "incomes_")
	require.NoError(t, err)
	assert.Equal(t, []string{"incomes_2024-01"}, keys)

	require.NoError(t, kv.Delete(ctx, "goals"))
	_, err = kv.Get(ctx, "goals")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestKVStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	kv := NewKVStore()
	require.NoError(t, kv.Set(ctx, "k", []byte("abc")))

	v, _ := kv.Get(ctx, "k")
	v[0] = 'x'

	again, _ := kv.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}
