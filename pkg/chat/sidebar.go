package chat

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
)

// Sidebar is the summary cache behind the conversation list: a local
// projection of the remote store, reconciled by explicit revalidation
// only. Summaries are always ordered by UpdatedAt descending.
type Sidebar struct {
	mu sync.Mutex

	summaries []Summary
	activeID  string
	loading   bool

	store Store
	log   logger.ILogger
}

func NewSidebar(store Store, log logger.ILogger) *Sidebar {
	return &Sidebar{store: store, log: log}
}

// Summaries returns a sorted copy of the cache.
func (s *Sidebar) Summaries() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Summary, len(s.summaries))
	copy(out, s.summaries)
	return out
}

func (s *Sidebar) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Sidebar) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// SetActiveID marks one summary active and every other inactive. An
// empty id clears the active pointer.
func (s *Sidebar) SetActiveID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
	for i := range s.summaries {
		s.summaries[i].Active = s.summaries[i].Id == id
	}
}

// CreateNewChat generates a client-side id, persists the stub remotely,
// and only on success inserts the summary at the head of the list as the
// active one. On failure no local mutation occurs.
func (s *Sidebar) CreateNewChat(ctx context.Context) (string, bool) {
	id := uuid.NewString()

	if !s.store.CreateConversation(ctx, id, DefaultTitle) {
		s.log.Warn("sidebar", "remote create failed", map[string]interface{}{"id": id})
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.summaries {
		s.summaries[i].Active = false
	}
	now := nowFunc()
	s.summaries = append([]Summary{{
		Id:        id,
		Title:     DefaultTitle,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}}, s.summaries...)
	s.activeID = id
	return id, true
}

// DeleteChat removes a conversation remote-first; the summary leaves the
// cache only after remote confirmation, and the active pointer is
// cleared when the deleted chat was active.
func (s *Sidebar) DeleteChat(ctx context.Context, id string) bool {
	if !s.store.DeleteConversation(ctx, id) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.summaries[:0]
	for _, sum := range s.summaries {
		if sum.Id != id {
			kept = append(kept, sum)
		}
	}
	s.summaries = kept
	if s.activeID == id {
		s.activeID = ""
	}
	return true
}

// UpdateTitle persists a rename remote-first and patches the cached
// summary after confirmation. Blank titles are rejected locally.
func (s *Sidebar) UpdateTitle(ctx context.Context, id, title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrEmptyTitle
	}

	if err := s.store.UpdateConversationTitle(ctx, id, trimmed); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.summaries {
		if s.summaries[i].Id == id {
			s.summaries[i].Title = trimmed
			break
		}
	}
	return nil
}

// Revalidate refetches the summary list and replaces the cache
// wholesale, preserving the active pointer. This is how the sidebar
// eventually reflects server-side truth after timestamp bumps or
// suggested titles.
func (s *Sidebar) Revalidate(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	fetched, ok := s.store.FetchSummaries(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !ok {
		s.log.Warn("sidebar", "summary revalidation failed", nil)
		return
	}
	sort.SliceStable(fetched, func(i, j int) bool {
		return fetched[i].UpdatedAt.After(fetched[j].UpdatedAt)
	})
	for i := range fetched {
		fetched[i].Active = fetched[i].Id == s.activeID
	}
	s.summaries = fetched
}

// AddToSummaries upserts a summary for a conversation opened directly by
// URL before the list was revalidated.
func (s *Sidebar) AddToSummaries(sum Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.summaries {
		if existing.Id == sum.Id {
			return
		}
	}
	sum.Active = sum.Id == s.activeID
	s.summaries = append([]Summary{sum}, s.summaries...)
}
