// Package dashboard holds the client-side state of a viewing session: the
// user's match selection, the two polled views and their terminal rendering.
package dashboard

import (
	"sync"

	"github.com/neilpattanaik/ParlayWatch/internal/domain/match"
)

// Selection is the ordered list of match ids the user pinned to the dashboard.
// Identity is the match id only; Add keeps duplicates and Remove drops every copy.
type Selection struct {
	mu  sync.RWMutex
	ids []string
}

func NewSelection() *Selection {
	return &Selection{ids: []string{}}
}

func (s *Selection) Add(m match.Match) {
	if m.ID == "" {
		return
	}
	s.mu.Lock()
	s.ids = append(s.ids, m.ID)
	s.mu.Unlock()
}

// Remove reports whether any entry was dropped.
func (s *Selection) Remove(m match.Match) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.ids[:0]
	removed := false
	for _, id := range s.ids {
		if id == m.ID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	s.ids = kept
	return removed
}

func (s *Selection) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

func (s *Selection) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Selection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Set snapshots the selection for membership tests.
func (s *Selection) Set() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]struct{}, len(s.ids))
	for _, id := range s.ids {
		out[id] = struct{}{}
	}
	return out
}
