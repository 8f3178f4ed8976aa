package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Joseda-hg/studentguide/internal/logger"
)

type entry struct {
	Topic    string   `json:"topic"`
	Progress int      `json:"progress"`
	Tags     []string `json:"tags"`
}

func TestSetThenGetRoundTrips(t *testing.T) {
	cases := []struct {
		name  string
		value []entry
	}{
		{name: "empty", value: []entry{}},
		{name: "single", value: []entry{{Topic: "Maths", Progress: 40}}},
		{name: "unicode", value: []entry{{Topic: "Chemistry 😟", Progress: 100, Tags: []string{"lab", "é"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newFileStore(t, t.TempDir(), Progress)
			if err := s.Set(context.Background(), "alice", tc.value); err != nil {
				t.Fatalf("set: %v", err)
			}
			got, err := Value(s, "alice", []entry(nil))
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !reflect.DeepEqual(got, tc.value) {
				t.Fatalf("round trip mismatch: got %#v want %#v", got, tc.value)
			}
		})
	}
}

func TestSetPersistsPrettyPrintedDocument(t *testing.T) {
	dir := t.TempDir()
	s := newFileStore(t, dir, Tasks)
	if err := s.Set(context.Background(), "bob", []entry{{Topic: "Physics"}}); err != nil {
		t.Fatalf("set: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(data), "\n    \"bob\": [") {
		t.Fatalf("expected 4-space indented document, got:\n%s", data)
	}

	reopened := newFileStore(t, dir, Tasks)
	got, err := Value(reopened, "bob", []entry(nil))
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if len(got) != 1 || got[0].Topic != "Physics" {
		t.Fatalf("unexpected value after reopen: %#v", got)
	}
}

func TestGetMissingKeyReturnsDefault(t *testing.T) {
	s := newFileStore(t, t.TempDir(), Moods)
	got, err := Value(s, "nobody", []entry{{Topic: "default"}})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].Topic != "default" {
		t.Fatalf("expected default, got %#v", got)
	}
}

func TestLoadInvalidJSONResetsToEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "plans.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := Open(context.Background(), NewFileBackend(dir), Plans, logger.Nop())
	if err != nil {
		t.Fatalf("open should not fail on corrupt data: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty mapping, got %d keys", s.Len())
	}
	if !errors.Is(s.LoadWarning(), ErrCorruptData) {
		t.Fatalf("expected corrupt data warning, got %v", s.LoadWarning())
	}

	if err := s.Set(context.Background(), "alice", []entry{}); err != nil {
		t.Fatalf("set after corrupt load: %v", err)
	}
}

func TestSaveFailureKeepsInMemoryValue(t *testing.T) {
	backend := &failingBackend{}
	s, err := Open(context.Background(), backend, Doubts, logger.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	err = s.Set(context.Background(), "alice", []entry{{Topic: "x"}})
	if !errors.Is(err, ErrSaveFailure) {
		t.Fatalf("expected save failure, got %v", err)
	}
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected underlying cause to be kept, got %v", err)
	}
	if !s.Has("alice") {
		t.Fatalf("expected in-memory value to be kept after failed save")
	}
}

func TestUpdateAbortsWithoutSaving(t *testing.T) {
	s := newFileStore(t, t.TempDir(), Progress)
	ctx := context.Background()
	if err := s.Set(ctx, "alice", []entry{{Topic: "A"}}); err != nil {
		t.Fatalf("set: %v", err)
	}

	stop := errors.New("stop")
	err := Update(ctx, s, "alice", func(items *[]entry) error {
		*items = append(*items, entry{Topic: "B"})
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop error, got %v", err)
	}
	got, _ := Value(s, "alice", []entry(nil))
	if len(got) != 1 {
		t.Fatalf("expected aborted update to leave 1 entry, got %d", len(got))
	}

	if err := Update(ctx, s, "alice", func(items *[]entry) error {
		*items = append(*items, entry{Topic: "B"})
		return nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = Value(s, "alice", []entry(nil))
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
}

func TestSQLiteBackendRoundTrips(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	backend := NewSQLiteBackend(db)
	s, err := Open(ctx, backend, Reminders, logger.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Set(ctx, "alice", []entry{{Topic: "sql"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "alice", []entry{{Topic: "sql", Progress: 5}}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	reopened, err := Open(ctx, backend, Reminders, logger.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := Value(reopened, "alice", []entry(nil))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].Progress != 5 {
		t.Fatalf("unexpected value %#v", got)
	}
}

func TestOpenAllCollectsWarnings(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "moods.json"), []byte("[1,2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	all, err := OpenAll(context.Background(), NewFileBackend(dir), logger.Nop())
	if err != nil {
		t.Fatalf("open all: %v", err)
	}
	warnings := all.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
}

var errDiskFull = errors.New("disk full")

type failingBackend struct{}

func (failingBackend) ReadDocument(context.Context, string) ([]byte, error) {
	return nil, ErrNoDocument
}

func (failingBackend) WriteDocument(context.Context, string, []byte) error {
	return errDiskFull
}

func newFileStore(t *testing.T, dir, name string) *RecordStore {
	t.Helper()
	s, err := Open(context.Background(), NewFileBackend(dir), name, logger.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}
