package chat_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

func openPinned(t *testing.T) *chat.PinnedStore {
	t.Helper()
	store, err := chat.OpenPinnedStore(filepath.Join(t.TempDir(), "pins.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPinUnpinRoundTrip(t *testing.T) {
	store := openPinned(t)

	require.NoError(t, store.Pin("c1", "Travel plans"))
	assert.True(t, store.IsPinned("c1"))
	assert.False(t, store.IsPinned("c2"))

	pins, err := store.List()
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, "Travel plans", pins[0].Title)
	assert.False(t, pins[0].PinnedAt.IsZero())

	require.NoError(t, store.Unpin("c1"))
	assert.False(t, store.IsPinned("c1"))
}

func TestPinIsIdempotent(t *testing.T) {
	store := openPinned(t)

	require.NoError(t, store.Pin("c1", "Original"))
	require.NoError(t, store.Pin("c1", "Replaced"))

	pins, err := store.List()
	require.NoError(t, err)
	require.Len(t, pins, 1)
	// Second pin is a no-op, the first snapshot wins.
	assert.Equal(t, "Original", pins[0].Title)
}

func TestPinnedTitleResync(t *testing.T) {
	store := openPinned(t)

	require.NoError(t, store.Pin("c1", "Draft"))
	require.NoError(t, store.UpdateTitle("c1", "Final"))
	require.NoError(t, store.UpdateTitle("unknown", "ignored"))

	pins, err := store.List()
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, "Final", pins[0].Title)
}

func TestListOrdersByPinTime(t *testing.T) {
	store := openPinned(t)

	require.NoError(t, store.Pin("a", "First"))
	require.NoError(t, store.Pin("b", "Second"))
	require.NoError(t, store.Pin("c", "Third"))

	pins, err := store.List()
	require.NoError(t, err)
	require.Len(t, pins, 3)
	assert.Equal(t, "a", pins[0].Id)
	assert.Equal(t, "b", pins[1].Id)
	assert.Equal(t, "c", pins[2].Id)
}

func TestPinSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pins.db")

	store, err := chat.OpenPinnedStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Pin("c1", "Keep me"))
	require.NoError(t, store.Close())

	reopened, err := chat.OpenPinnedStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.True(t, reopened.IsPinned("c1"))
}
