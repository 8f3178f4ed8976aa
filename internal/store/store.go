package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Joseda-hg/studentguide/internal/logger"
)

var (
	ErrCorruptData = errors.New("corrupt data")
	ErrSaveFailure = errors.New("save failed")
)

// Category document names.
const (
	Users        = "users"
	Tasks        = "tasks"
	Plans        = "plans"
	Doubts       = "doubts"
	Progress     = "progress"
	Moods        = "moods"
	Reminders    = "reminders"
	TimerHistory = "timer_history"
)

type CorruptError struct {
	Name string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("%s is corrupted and was reset to empty: %v", e.Name, e.Err)
}

func (e *CorruptError) Unwrap() []error {
	return []error{ErrCorruptData, e.Err}
}

type SaveError struct {
	Name string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Name, e.Err)
}

func (e *SaveError) Unwrap() []error {
	return []error{ErrSaveFailure, e.Err}
}

// RecordStore holds one category document: a mapping from user id to an
// arbitrary JSON value. Every Set rewrites the whole document.
type RecordStore struct {
	mu      sync.Mutex
	name    string
	backend Backend
	data    map[string]json.RawMessage
	warning error
	log     *logger.Logger
}

func Open(ctx context.Context, backend Backend, name string, log *logger.Logger) (*RecordStore, error) {
	s := &RecordStore{
		name:    name,
		backend: backend,
		data:    make(map[string]json.RawMessage),
		log:     log.With("store", name),
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory mapping with the persisted document. A missing
// document yields an empty mapping. Unparsable content also yields an empty
// mapping and is reported through LoadWarning rather than as an error.
func (s *RecordStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]json.RawMessage)
	s.warning = nil

	raw, err := s.backend.ReadDocument(ctx, s.name)
	if errors.Is(err, ErrNoDocument) {
		return nil
	}
	if err != nil {
		return err
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &parsed); err != nil {
		s.warning = &CorruptError{Name: s.name, Err: err}
		s.log.Warn("data file corrupted, starting empty", "error", err)
		return nil
	}
	if parsed != nil {
		s.data = parsed
	}
	return nil
}

func (s *RecordStore) Name() string {
	return s.name
}

func (s *RecordStore) LoadWarning() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

func (s *RecordStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

func (s *RecordStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *RecordStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Get decodes the value stored for key into dst and reports whether it was
// present. A stored value that does not fit dst is reported as corrupt.
func (s *RecordStore) Get(key string, dst any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(key, dst)
}

func (s *RecordStore) getLocked(key string, dst any) (bool, error) {
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, &CorruptError{Name: s.name + "/" + key, Err: err}
	}
	return true, nil
}

// Set overwrites the value for key and persists the whole document. When the
// write fails the new value stays in memory and a *SaveError is returned.
func (s *RecordStore) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(ctx, key, value)
}

func (s *RecordStore) setLocked(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", s.name, key, err)
	}
	s.data[key] = raw
	return s.saveLocked(ctx)
}

func (s *RecordStore) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

func (s *RecordStore) saveLocked(ctx context.Context) error {
	doc, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return &SaveError{Name: s.name, Err: err}
	}
	if err := s.backend.WriteDocument(ctx, s.name, doc); err != nil {
		s.log.Error("save failed", "error", err)
		return &SaveError{Name: s.name, Err: err}
	}
	return nil
}

// Value returns the value stored for key, or def when absent.
func Value[T any](s *RecordStore, key string, def T) (T, error) {
	var v T
	ok, err := s.Get(key, &v)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// Update runs a read-modify-write of key's value under the store lock. fn
// receives the current value (zero when absent); returning an error aborts
// without saving.
func Update[T any](ctx context.Context, s *RecordStore, key string, fn func(*T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var v T
	if _, err := s.getLocked(key, &v); err != nil {
		return err
	}
	if err := fn(&v); err != nil {
		return err
	}
	return s.setLocked(ctx, key, v)
}

// Stores groups the record stores of every category.
type Stores struct {
	Users        *RecordStore
	Tasks        *RecordStore
	Plans        *RecordStore
	Doubts       *RecordStore
	Progress     *RecordStore
	Moods        *RecordStore
	Reminders    *RecordStore
	TimerHistory *RecordStore
}

func OpenAll(ctx context.Context, backend Backend, log *logger.Logger) (*Stores, error) {
	var all Stores
	targets := []struct {
		name string
		dst  **RecordStore
	}{
		{Users, &all.Users},
		{Tasks, &all.Tasks},
		{Plans, &all.Plans},
		{Doubts, &all.Doubts},
		{Progress, &all.Progress},
		{Moods, &all.Moods},
		{Reminders, &all.Reminders},
		{TimerHistory, &all.TimerHistory},
	}
	for _, target := range targets {
		s, err := Open(ctx, backend, target.name, log)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", target.name, err)
		}
		*target.dst = s
	}
	return &all, nil
}

// Warnings collects the load warnings of all categories.
func (a *Stores) Warnings() []error {
	var warnings []error
	for _, s := range []*RecordStore{a.Users, a.Tasks, a.Plans, a.Doubts, a.Progress, a.Moods, a.Reminders, a.TimerHistory} {
		if err := s.LoadWarning(); err != nil {
			warnings = append(warnings, err)
		}
	}
	return warnings
}
