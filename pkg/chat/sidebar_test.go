package chat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

func newSidebar(store *fakeStore) *chat.Sidebar {
	return chat.NewSidebar(store, logger.NewNopLogger())
}

func TestCreateNewChatInsertsAtHead(t *testing.T) {
	store := newFakeStore()
	sb := newSidebar(store)

	first, ok := sb.CreateNewChat(context.Background())
	require.True(t, ok)
	second, ok := sb.CreateNewChat(context.Background())
	require.True(t, ok)

	sums := sb.Summaries()
	require.Len(t, sums, 2)
	assert.Equal(t, second, sums[0].Id)
	assert.Equal(t, first, sums[1].Id)

	// Exactly the newest chat is active.
	assert.True(t, sums[0].Active)
	assert.False(t, sums[1].Active)
	assert.Equal(t, second, sb.ActiveID())
}

func TestCreateNewChatFailureLeavesCacheUntouched(t *testing.T) {
	store := newFakeStore()
	store.failCreate = true
	sb := newSidebar(store)

	id, ok := sb.CreateNewChat(context.Background())
	assert.False(t, ok)
	assert.Empty(t, id)
	assert.Empty(t, sb.Summaries())
	assert.Empty(t, sb.ActiveID())
}

func TestDeleteChatRemoteFirst(t *testing.T) {
	store := newFakeStore()
	sb := newSidebar(store)
	id, _ := sb.CreateNewChat(context.Background())

	store.failDelete = true
	assert.False(t, sb.DeleteChat(context.Background(), id))
	// Remote refused: the summary stays.
	require.Len(t, sb.Summaries(), 1)
	assert.Equal(t, id, sb.ActiveID())

	store.failDelete = false
	assert.True(t, sb.DeleteChat(context.Background(), id))
	assert.Empty(t, sb.Summaries())
	assert.Empty(t, sb.ActiveID())
}

func TestSetActiveIDIsExclusive(t *testing.T) {
	store := newFakeStore()
	sb := newSidebar(store)
	a, _ := sb.CreateNewChat(context.Background())
	b, _ := sb.CreateNewChat(context.Background())

	sb.SetActiveID(a)
	for _, s := range sb.Summaries() {
		assert.Equal(t, s.Id == a, s.Active)
	}

	sb.SetActiveID(b)
	active := 0
	for _, s := range sb.Summaries() {
		if s.Active {
			active++
			assert.Equal(t, b, s.Id)
		}
	}
	assert.Equal(t, 1, active)

	sb.SetActiveID("")
	for _, s := range sb.Summaries() {
		assert.False(t, s.Active)
	}
}

func TestRevalidateReplacesWholesaleAndSorts(t *testing.T) {
	store := newFakeStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.summaries = []chat.Summary{
		{Id: "old", Title: "Old", UpdatedAt: base},
		{Id: "new", Title: "New", UpdatedAt: base.Add(time.Hour)},
		{Id: "mid", Title: "Mid", UpdatedAt: base.Add(time.Minute)},
	}

	sb := newSidebar(store)
	sb.SetActiveID("mid")
	sb.AddToSummaries(chat.Summary{Id: "stale", Title: "Gone"})

	sb.Revalidate(context.Background())

	sums := sb.Summaries()
	require.Len(t, sums, 3)
	assert.Equal(t, "new", sums[0].Id)
	assert.Equal(t, "mid", sums[1].Id)
	assert.Equal(t, "old", sums[2].Id)

	// Active pointer survives the replace.
	assert.True(t, sums[1].Active)
	assert.False(t, sums[0].Active)
	assert.False(t, sums[2].Active)
}

func TestSidebarUpdateTitleRejectsBlank(t *testing.T) {
	store := newFakeStore()
	sb := newSidebar(store)
	id, _ := sb.CreateNewChat(context.Background())

	err := sb.UpdateTitle(context.Background(), id, "  ")
	require.ErrorIs(t, err, chat.ErrEmptyTitle)
	assert.Equal(t, 0, store.titleCalls)

	require.NoError(t, sb.UpdateTitle(context.Background(), id, "  Renamed  "))
	assert.Equal(t, "Renamed", sb.Summaries()[0].Title)
	assert.Equal(t, "Renamed", store.titles[id])
}

func TestAddToSummariesIgnoresDuplicates(t *testing.T) {
	sb := newSidebar(newFakeStore())
	sb.AddToSummaries(chat.Summary{Id: "c1", Title: "First"})
	sb.AddToSummaries(chat.Summary{Id: "c1", Title: "Second"})

	sums := sb.Summaries()
	require.Len(t, sums, 1)
	assert.Equal(t, "First", sums[0].Title)
}
