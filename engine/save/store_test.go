package save

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeSuite(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "quicksave")
	require.True(t, errors.Is(err, ErrSlotNotFound), "got %v", err)

	require.NoError(t, store.Put(ctx, "quicksave", []byte(`{"v":1}`)))
	require.NoError(t, store.Put(ctx, "quicksave", []byte(`{"v":2}`)))
	require.NoError(t, store.Put(ctx, "before_shrine", []byte(`{"v":3}`)))

	got, err := store.Get(ctx, "quicksave")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(got))

	slots, err := store.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, s := range slots {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"quicksave", "before_shrine"}, names)

	require.NoError(t, store.Delete(ctx, "before_shrine"))
	assert.True(t, errors.Is(store.Delete(ctx, "before_shrine"), ErrSlotNotFound))

	assert.True(t, errors.Is(store.Put(ctx, "../escape", nil), ErrInvalidSlot))
	assert.True(t, errors.Is(store.Put(ctx, "", nil), ErrInvalidSlot))
}

func TestFileStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "saves"))
	defer store.Close()

	slots, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, slots, "missing directory lists as empty")

	storeSuite(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "saves.db"))
	require.NoError(t, err)
	defer store.Close()

	storeSuite(t, store)
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	defer store.Close()

	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "a", []byte("1")))
	require.NoError(t, store.Put(ctx, "b", []byte("2")))
	require.NoError(t, store.Put(ctx, "c", []byte("3")))

	slots, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "c", slots[0].Name)
	assert.Equal(t, "a", slots[2].Name)
}

func TestNewSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore("  ")
	assert.Error(t, err)
}

func TestValidSlot(t *testing.T) {
	assert.True(t, ValidSlot("quicksave"))
	assert.True(t, ValidSlot("slot 2"))
	assert.False(t, ValidSlot(""))
	assert.False(t, ValidSlot(".."))
	assert.False(t, ValidSlot("a/b"))
	assert.False(t, ValidSlot(`a\b`))
}
