package pomodoro

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Joseda-hg/studentguide/internal/alert"
	"github.com/Joseda-hg/studentguide/internal/logger"
	"github.com/Joseda-hg/studentguide/internal/model"
)

var (
	ErrAlreadyRunning = errors.New("a timer is already running")
	ErrInvalidInput   = errors.New("minutes must be a positive whole number")
)

type State string

const (
	StateStopped State = "stopped"
	StateWork    State = "work"
	StateBreak   State = "break"
	StateCustom  State = "custom"
)

type Snapshot struct {
	State     State
	Remaining time.Duration
	Running   bool
}

type EventKind int

const (
	EventTick EventKind = iota
	EventCompleted
)

// Event reports engine progress. Finished is set on EventCompleted to the
// kind of timer that just ran out.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	Finished model.TimerType
}

// Recorder persists a completed timer.
type Recorder func(ctx context.Context, entry model.TimerEntry) error

type Options struct {
	Work  time.Duration
	Break time.Duration
	// Tick is the wall-clock interval between countdown steps.
	Tick time.Duration
	// Step is how much is taken off the remaining time on every tick.
	Step time.Duration
}

func DefaultOptions() Options {
	return Options{Work: 25 * time.Minute, Break: 5 * time.Minute, Tick: time.Second, Step: time.Second}
}

// Engine is a single-session countdown: work then break, or a one-shot
// custom timer. At most one countdown goroutine is live; a stale one exits
// at its next tick without touching state.
type Engine struct {
	opts   Options
	record Recorder
	alert  alert.Alerter
	log    *logger.Logger
	now    func() time.Time
	events chan Event

	mu        sync.Mutex
	state     State
	remaining time.Duration
	length    time.Duration
	running   bool
	gen       int
	cancel    context.CancelFunc
}

func New(opts Options, record Recorder, alerter alert.Alerter, log *logger.Logger) *Engine {
	def := DefaultOptions()
	if opts.Work <= 0 {
		opts.Work = def.Work
	}
	if opts.Break <= 0 {
		opts.Break = def.Break
	}
	if opts.Tick <= 0 {
		opts.Tick = def.Tick
	}
	if opts.Step <= 0 {
		opts.Step = def.Step
	}
	return &Engine{
		opts:      opts,
		record:    record,
		alert:     alerter,
		log:       log.With("component", "pomodoro"),
		now:       time.Now,
		events:    make(chan Event, 64),
		state:     StateStopped,
		remaining: opts.Work,
		length:    opts.Work,
	}
}

// Events delivers ticks and completions. When the consumer falls behind new
// ticks are dropped; a completion is always delivered, displacing the oldest
// queued event if the buffer is full.
func (e *Engine) Events() <-chan Event {
	return e.events
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Start begins a work session from stopped, or resumes the current one.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrAlreadyRunning
	}

	switch e.state {
	case StateStopped:
		e.state = StateWork
		e.length = e.opts.Work
		e.remaining = e.opts.Work
	case StateBreak:
		if e.remaining <= 0 {
			e.length = e.opts.Break
			e.remaining = e.opts.Break
		}
	default:
		if e.remaining <= 0 {
			e.remaining = e.length
		}
	}
	e.launchLocked()
	return nil
}

// StartCustom runs a one-shot timer of input minutes.
func (e *Engine) StartCustom(input string) error {
	minutes, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || minutes <= 0 {
		return fmt.Errorf("%q: %w", input, ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return ErrAlreadyRunning
	}
	e.state = StateCustom
	e.length = time.Duration(minutes) * time.Minute
	e.remaining = e.length
	e.launchLocked()
	return nil
}

// Pause stops the countdown and keeps state and remaining time.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	e.emit(Event{Kind: EventTick, Snapshot: e.snapshotLocked()})
}

// Reset stops any countdown and returns to a full work period.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	e.state = StateStopped
	e.length = e.opts.Work
	e.remaining = e.opts.Work
	e.emit(Event{Kind: EventTick, Snapshot: e.snapshotLocked()})
}

func (e *Engine) launchLocked() {
	e.gen++
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.running = true
	e.log.Debug("timer started", "state", e.state, "remaining", e.remaining)
	go e.run(ctx, e.gen)
}

func (e *Engine) stopLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.running = false
}

func (e *Engine) run(ctx context.Context, gen int) {
	ticker := time.NewTicker(e.opts.Tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !e.advance(gen) {
				return
			}
		}
	}
}

// advance takes one step off the countdown owned by gen and handles
// completion. It reports whether that countdown is still running.
func (e *Engine) advance(gen int) bool {
	e.mu.Lock()
	if gen != e.gen || !e.running {
		e.mu.Unlock()
		return false
	}

	e.remaining -= e.opts.Step
	if e.remaining > 0 {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		e.emit(Event{Kind: EventTick, Snapshot: snap})
		return true
	}

	finished, minutes := e.finishedLocked()
	var message string
	switch e.state {
	case StateWork:
		message = "Work session finished! Time for a break."
		e.state = StateBreak
		e.length = e.opts.Break
		e.remaining = e.opts.Break
	case StateBreak:
		message = "Break finished! Time to work."
		e.toStoppedLocked()
	default:
		message = "Your timer is done!"
		e.toStoppedLocked()
	}
	stillRunning := e.running
	snap := e.snapshotLocked()
	e.mu.Unlock()

	entry := model.TimerEntry{Type: finished, DurationMinutes: minutes, Timestamp: model.NewTimestamp(e.now())}
	if e.record != nil {
		if err := e.record(context.Background(), entry); err != nil {
			e.log.Error("record timer", "type", finished, "error", err)
		}
	}
	if e.alert != nil {
		e.alert.Alert(message)
	}
	e.emitCompleted(Event{Kind: EventCompleted, Snapshot: snap, Finished: finished})
	return stillRunning
}

func (e *Engine) finishedLocked() (model.TimerType, int) {
	minutes := int(e.length / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	switch e.state {
	case StateWork:
		return model.TimerWork, minutes
	case StateBreak:
		return model.TimerBreak, minutes
	default:
		return model.TimerCustom, minutes
	}
}

func (e *Engine) toStoppedLocked() {
	e.stopLocked()
	e.state = StateStopped
	e.length = e.opts.Work
	e.remaining = e.opts.Work
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{State: e.state, Remaining: e.remaining, Running: e.running}
}

func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}

func (e *Engine) emitCompleted(ev Event) {
	for {
		select {
		case e.events <- ev:
			return
		default:
		}
		select {
		case <-e.events:
		default:
		}
	}
}

// Format renders a duration as MM:SS.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
