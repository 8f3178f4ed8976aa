package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/Joseda-hg/studentguide/internal/session"
	"github.com/Joseda-hg/studentguide/internal/store"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNothingSelected = errors.New("nothing selected")
)

type Item interface {
	Validate() error
}

// List is the shared list manager behind every board: one user's items kept
// in insertion order in a RecordStore, with selection held by the session.
type List[T Item] struct {
	store    *store.RecordStore
	category string
}

func NewList[T Item](s *store.RecordStore) *List[T] {
	return &List[T]{store: s, category: s.Name()}
}

func (l *List[T]) Category() string {
	return l.category
}

func (l *List[T]) Items(sess *session.Session) ([]T, error) {
	return store.Value(l.store, sess.UserID, []T{})
}

func (l *List[T]) Len(sess *session.Session) (int, error) {
	items, err := l.Items(sess)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Append validates item and adds it to the end of the user's list.
func (l *List[T]) Append(ctx context.Context, sess *session.Session, item T) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return store.Update(ctx, l.store, sess.UserID, func(items *[]T) error {
		*items = append(*items, item)
		return nil
	})
}

// ToggleSelection flips the selection of the item at index and reports the
// new state.
func (l *List[T]) ToggleSelection(sess *session.Session, index int) (bool, error) {
	n, err := l.Len(sess)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= n {
		return false, fmt.Errorf("%s %d: %w", l.category, index, ErrIndexOutOfRange)
	}
	return sess.Toggle(l.category, index), nil
}

func (l *List[T]) IsSelected(sess *session.Session, index int) bool {
	return sess.IsSelected(l.category, index)
}

func (l *List[T]) Selected(sess *session.Session) []int {
	return sess.Selected(l.category)
}

// DeleteSelected removes every selected item and returns how many were
// removed. With nothing selected it returns ErrNothingSelected and saves
// nothing. Selection is cleared even when the save fails: the in-memory list
// has already shifted, so the old indices no longer name the same items.
func (l *List[T]) DeleteSelected(ctx context.Context, sess *session.Session) (int, error) {
	selected := l.selectedSet(sess)
	removed := 0
	err := store.Update(ctx, l.store, sess.UserID, func(items *[]T) error {
		kept := make([]T, 0, len(*items))
		for i, item := range *items {
			if _, ok := selected[i]; ok {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		if removed == 0 {
			return ErrNothingSelected
		}
		*items = kept
		return nil
	})
	sess.ClearSelection(l.category)
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ApplySelected runs fn on each selected item and deselects it. fn reports
// whether it changed the item. When nothing changed ErrNothingSelected is
// returned and nothing is saved; selection is cleared either way.
func (l *List[T]) ApplySelected(ctx context.Context, sess *session.Session, fn func(item *T) bool) (int, error) {
	selected := l.selectedSet(sess)
	changed := 0
	err := store.Update(ctx, l.store, sess.UserID, func(items *[]T) error {
		for i := range *items {
			if _, ok := selected[i]; !ok {
				continue
			}
			if fn(&(*items)[i]) {
				changed++
			}
		}
		if changed == 0 {
			return ErrNothingSelected
		}
		return nil
	})
	sess.ClearSelection(l.category)
	if err != nil {
		return 0, err
	}
	return changed, nil
}

// UpdateAt runs fn on the item at index and saves.
func (l *List[T]) UpdateAt(ctx context.Context, sess *session.Session, index int, fn func(item *T)) error {
	return store.Update(ctx, l.store, sess.UserID, func(items *[]T) error {
		if index < 0 || index >= len(*items) {
			return fmt.Errorf("%s %d: %w", l.category, index, ErrIndexOutOfRange)
		}
		fn(&(*items)[index])
		return nil
	})
}

func (l *List[T]) selectedSet(sess *session.Session) map[int]struct{} {
	indices := sess.Selected(l.category)
	set := make(map[int]struct{}, len(indices))
	for _, index := range indices {
		set[index] = struct{}{}
	}
	return set
}

// recent returns up to n items, newest first.
func recent[T any](items []T, n int) []T {
	if n <= 0 || n > len(items) {
		n = len(items)
	}
	out := make([]T, 0, n)
	for i := len(items) - 1; i >= len(items)-n; i-- {
		out = append(out, items[i])
	}
	return out
}
