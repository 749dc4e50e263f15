package store

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/mikey/inbox-labeler/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openStores(t *testing.T) map[string]core.LabelStore {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "labels.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]core.LabelStore{
		"memory": NewMemoryStore(zap.NewNop()),
		"sqlite": sqlite,
	}
}

func TestStorePutGet(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Put(ctx, "  Netflix.COM ", "Entertainment", core.SourceManual))

			label, err := s.Get(ctx, "netflix.com")
			require.NoError(t, err)
			assert.Equal(t, "Entertainment", label)

			label, err = s.Get(ctx, "NETFLIX.com")
			require.NoError(t, err)
			assert.Equal(t, "Entertainment", label)
		})
	}
}

func TestStorePutReplaces(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Put(ctx, "shop.example", "Shopping", core.SourceSeed))
			require.NoError(t, s.Put(ctx, "shop.example", "Shopping", core.SourceSeed))
			require.NoError(t, s.Put(ctx, "shop.example", "Promotions", core.SourceManual))

			records, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "shop.example", records[0].Domain)
			assert.Equal(t, "Promotions", records[0].Label)
			assert.Equal(t, core.SourceManual, records[0].Source)
			assert.False(t, records[0].CreatedAt.IsZero())
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "nobody.example")
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Put(ctx, "a.example", "Work", core.SourceManual))
			require.NoError(t, s.Delete(ctx, "A.example"))
			require.NoError(t, s.Delete(ctx, "never-stored.example"))

			_, err := s.Get(ctx, "a.example")
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}
}

func TestStoreRejectsEmptyValues(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			assert.ErrorIs(t, s.Put(ctx, " ", "Work", core.SourceManual), core.ErrInvalidInput)
			assert.ErrorIs(t, s.Put(ctx, "a.example", "", core.SourceManual), core.ErrInvalidInput)

			records, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestSeedStoreIsIdempotent(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, core.SeedStore(ctx, s, zap.NewNop()))
			require.NoError(t, core.SeedStore(ctx, s, zap.NewNop()))

			records, err := s.List(ctx)
			require.NoError(t, err)
			assert.Len(t, records, len(core.SeedDomains))

			label, err := s.Get(ctx, "netflix.com")
			require.NoError(t, err)
			assert.Equal(t, core.CategoryEntertainment, label)
		})
	}
}

func TestSeedStoreSkipsInitializedStore(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Put(ctx, "netflix.com", "Streaming", core.SourceManual))

			require.NoError(t, core.SeedStore(ctx, s, zap.NewNop()))

			records, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "Streaming", records[0].Label)
			assert.Equal(t, core.SourceManual, records[0].Source)
		})
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "b.example", "Travel", core.SourceAI))
	require.NoError(t, first.Put(ctx, "a.example", "Work", core.SourceManual))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()

	records, err := second.List(ctx)
	require.NoError(t, err)
	sort.Slice(records, func(i, j int) bool { return records[i].Domain < records[j].Domain })

	require.Len(t, records, 2)
	assert.Equal(t, "a.example", records[0].Domain)
	assert.Equal(t, core.SourceAI, records[1].Source)
}

func TestParseTimestamp(t *testing.T) {
	for _, value := range []string{
		"2024-03-10T12:00:00.123456789Z",
		"2024-03-10T12:00:00Z",
		"2024-03-10 12:00:00.123456",
		"2024-03-10 12:00:00",
	} {
		ts, err := parseTimestamp(value)
		require.NoError(t, err, value)
		assert.Equal(t, 2024, ts.Year())
	}

	_, err := parseTimestamp("last tuesday")
	assert.Error(t, err)
}
