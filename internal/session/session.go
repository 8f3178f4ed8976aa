package session

import (
	"sort"
	"sync"
)

// Session is the logged-in user's context. It carries the ephemeral
// per-category selection used for bulk actions; selection is never persisted.
type Session struct {
	UserID string

	mu        sync.Mutex
	selection map[string]map[int]struct{}
}

func New(userID string) *Session {
	return &Session{UserID: userID, selection: make(map[string]map[int]struct{})}
}

func (s *Session) Toggle(category string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.selection[category]
	if set == nil {
		set = make(map[int]struct{})
		s.selection[category] = set
	}
	if _, ok := set[index]; ok {
		delete(set, index)
		return false
	}
	set[index] = struct{}{}
	return true
}

func (s *Session) IsSelected(category string, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.selection[category][index]
	return ok
}

// Selected returns the selected indices of category in ascending order.
func (s *Session) Selected(category string) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	indices := make([]int, 0, len(s.selection[category]))
	for index := range s.selection[category] {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}

func (s *Session) Deselect(category string, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selection[category], index)
}

func (s *Session) ClearSelection(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selection, category)
}
