package pomodoro

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Joseda-hg/studentguide/internal/logger"
	"github.com/Joseda-hg/studentguide/internal/model"
)

type recorded struct {
	mu      sync.Mutex
	entries []model.TimerEntry
}

func (r *recorded) record(_ context.Context, entry model.TimerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recorded) list() []model.TimerEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.TimerEntry(nil), r.entries...)
}

type countingAlerter struct {
	mu    sync.Mutex
	count int
}

func (c *countingAlerter) Alert(string) {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

// newManualEngine returns an engine whose ticker never fires on its own;
// tests step it with advance.
func newManualEngine(t *testing.T) (*Engine, *recorded, *countingAlerter) {
	t.Helper()
	rec := &recorded{}
	bell := &countingAlerter{}
	e := New(Options{Work: time.Minute, Break: 2 * time.Minute, Tick: time.Hour, Step: 30 * time.Second}, rec.record, bell, logger.Nop())
	t.Cleanup(e.Reset)
	return e, rec, bell
}

func step(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.mu.Lock()
		gen := e.gen
		e.mu.Unlock()
		e.advance(gen)
	}
}

func TestInitialSnapshot(t *testing.T) {
	e, _, _ := newManualEngine(t)
	snap := e.Snapshot()
	if snap.State != StateStopped || snap.Remaining != time.Minute || snap.Running {
		t.Fatalf("unexpected initial snapshot %+v", snap)
	}
}

func TestWorkCompletionStartsBreak(t *testing.T) {
	e, rec, bell := newManualEngine(t)
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	step(e, 2)

	entries := rec.list()
	if len(entries) != 1 || entries[0].Type != model.TimerWork || entries[0].DurationMinutes != 1 {
		t.Fatalf("unexpected history %#v", entries)
	}
	snap := e.Snapshot()
	if snap.State != StateBreak || snap.Remaining != 2*time.Minute || !snap.Running {
		t.Fatalf("expected running break at full duration, got %+v", snap)
	}
	if bell.count != 1 {
		t.Fatalf("expected one alert, got %d", bell.count)
	}

	step(e, 4)
	entries = rec.list()
	if len(entries) != 2 || entries[1].Type != model.TimerBreak || entries[1].DurationMinutes != 2 {
		t.Fatalf("unexpected history after break %#v", entries)
	}
	snap = e.Snapshot()
	if snap.State != StateStopped || snap.Remaining != time.Minute || snap.Running {
		t.Fatalf("expected stopped at full work duration, got %+v", snap)
	}
}

func TestStartWhileRunning(t *testing.T) {
	e, _, _ := newManualEngine(t)
	e.Start()
	if err := e.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if err := e.StartCustom("3"); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning for custom, got %v", err)
	}
}

func TestStartCustomRejectsBadInput(t *testing.T) {
	e, _, _ := newManualEngine(t)
	for _, input := range []string{"", "abc", "0", "-5", "1.5"} {
		if err := e.StartCustom(input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("StartCustom(%q): expected ErrInvalidInput, got %v", input, err)
		}
	}
	if e.Snapshot().Running {
		t.Fatalf("engine should not be running")
	}
}

func TestCustomTimerLogsAndStops(t *testing.T) {
	e, rec, _ := newManualEngine(t)
	if err := e.StartCustom(" 2 "); err != nil {
		t.Fatalf("start custom: %v", err)
	}
	if snap := e.Snapshot(); snap.State != StateCustom || snap.Remaining != 2*time.Minute {
		t.Fatalf("unexpected custom snapshot %+v", snap)
	}
	step(e, 4)
	entries := rec.list()
	if len(entries) != 1 || entries[0].Type != model.TimerCustom || entries[0].DurationMinutes != 2 {
		t.Fatalf("unexpected history %#v", entries)
	}
	if snap := e.Snapshot(); snap.State != StateStopped || snap.Running {
		t.Fatalf("expected stopped, got %+v", snap)
	}
}

func TestPauseKeepsRemaining(t *testing.T) {
	e, rec, _ := newManualEngine(t)
	e.Start()
	step(e, 1)
	e.Pause()

	snap := e.Snapshot()
	if snap.State != StateWork || snap.Remaining != 30*time.Second || snap.Running {
		t.Fatalf("unexpected paused snapshot %+v", snap)
	}
	step(e, 3)
	if got := e.Snapshot().Remaining; got != 30*time.Second {
		t.Fatalf("paused engine kept counting: %v", got)
	}

	if err := e.Start(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if got := e.Snapshot().Remaining; got != 30*time.Second {
		t.Fatalf("resume did not keep remaining time: %v", got)
	}
	e.Reset()
	if snap := e.Snapshot(); snap.State != StateStopped || snap.Remaining != time.Minute || snap.Running {
		t.Fatalf("unexpected reset snapshot %+v", snap)
	}
	if len(rec.list()) != 0 {
		t.Fatalf("pause and reset must not log history")
	}
}

func TestTickerDrivesCountdown(t *testing.T) {
	rec := &recorded{}
	e := New(Options{Work: time.Minute, Break: time.Minute, Tick: time.Millisecond, Step: 30 * time.Second}, rec.record, nil, logger.Nop())
	defer e.Reset()
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-e.Events():
			if ev.Kind == EventCompleted && ev.Finished == model.TimerWork {
				return
			}
		case <-deadline:
			t.Fatalf("work session never completed")
		}
	}
}

func TestFormat(t *testing.T) {
	if got := Format(25 * time.Minute); got != "25:00" {
		t.Fatalf("Format = %q", got)
	}
	if got := Format(61 * time.Second); got != "01:01" {
		t.Fatalf("Format = %q", got)
	}
}

func TestCompletionSurvivesFullEventBuffer(t *testing.T) {
	e, _, _ := newManualEngine(t)
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < cap(e.events)+5; i++ {
		e.emit(Event{Kind: EventTick})
	}
	step(e, 2)

	var last Event
	drained := 0
	for len(e.events) > 0 {
		last = <-e.events
		drained++
	}
	if drained != cap(e.events) {
		t.Fatalf("expected a full buffer, drained %d", drained)
	}
	if last.Kind != EventCompleted || last.Finished != model.TimerWork {
		t.Fatalf("expected work completion as the newest event, got %+v", last)
	}
}
