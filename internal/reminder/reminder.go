package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Joseda-hg/studentguide/internal/board"
	"github.com/Joseda-hg/studentguide/internal/logger"
	"github.com/Joseda-hg/studentguide/internal/model"
	"github.com/Joseda-hg/studentguide/internal/session"
	"github.com/Joseda-hg/studentguide/internal/store"
)

var (
	ErrAlreadyRunning   = errors.New("reminder poller already running")
	ErrUnknownReminder  = errors.New("unknown reminder")
	ErrAlreadyDismissed = errors.New("reminder already dismissed")
)

const DefaultInterval = time.Second

// Notification is emitted once per reminder and poller run when the
// reminder comes due.
type Notification struct {
	Reminder model.Reminder
	Due      time.Time
}

// Scheduler owns a user's reminders and the background poller that surfaces
// them when they come due.
type Scheduler struct {
	*board.List[model.Reminder]

	store    *store.RecordStore
	log      *logger.Logger
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(s *store.RecordStore, interval time.Duration, log *logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		List:     board.NewList[model.Reminder](s),
		store:    s,
		log:      log.With("component", "reminders"),
		interval: interval,
		now:      time.Now,
	}
}

// Add creates an active reminder for date (YYYY-MM-DD) at clock (HH:MM).
func (s *Scheduler) Add(ctx context.Context, sess *session.Session, message, date, clock string) (model.Reminder, error) {
	reminder, err := model.NewReminder(uuid.NewString(), message, date, clock)
	if err != nil {
		return model.Reminder{}, err
	}
	return reminder, s.Append(ctx, sess, reminder)
}

// Dismiss moves an active reminder to dismissed and persists it.
func (s *Scheduler) Dismiss(ctx context.Context, sess *session.Session, id string) error {
	return store.Update(ctx, s.store, sess.UserID, func(items *[]model.Reminder) error {
		for i := range *items {
			if (*items)[i].ID != id {
				continue
			}
			if !(*items)[i].Active() {
				return fmt.Errorf("%s: %w", id, ErrAlreadyDismissed)
			}
			(*items)[i].Status = model.ReminderDismissed
			return nil
		}
		return fmt.Errorf("%s: %w", id, ErrUnknownReminder)
	})
}

// Start launches the poller for sess. The returned channel is closed after
// Stop or when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, sess *session.Session) (<-chan Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil, ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	out := make(chan Notification, 8)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.run(runCtx, sess, out, done)
	s.log.Info("reminder poller started", "user", sess.UserID, "interval", s.interval)
	return out, nil
}

// Stop cancels the poller and waits for it to exit. It is a no-op when the
// poller is not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.log.Info("reminder poller stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) run(ctx context.Context, sess *session.Session, out chan<- Notification, done chan<- struct{}) {
	defer close(done)
	defer close(out)

	// Both sets live only as long as this run.
	surfaced := make(map[string]struct{})
	malformed := make(map[string]struct{})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if !s.poll(ctx, sess, surfaced, malformed, out) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// poll emits every due reminder not yet surfaced. It returns false once ctx
// is done.
func (s *Scheduler) poll(ctx context.Context, sess *session.Session, surfaced, malformed map[string]struct{}, out chan<- Notification) bool {
	items, err := s.Items(sess)
	if err != nil {
		s.log.Warn("load reminders", "error", err)
		return ctx.Err() == nil
	}

	now := s.now()
	for _, reminder := range items {
		if !reminder.Active() {
			continue
		}
		if _, seen := surfaced[reminder.ID]; seen {
			continue
		}
		due, err := reminder.Time()
		if err != nil {
			if _, logged := malformed[reminder.ID]; !logged {
				malformed[reminder.ID] = struct{}{}
				s.log.Warn("skipping reminder with malformed datetime", "id", reminder.ID, "datetime", reminder.Datetime)
			}
			continue
		}
		if due.After(now) {
			continue
		}

		surfaced[reminder.ID] = struct{}{}
		select {
		case out <- Notification{Reminder: reminder, Due: due}:
		case <-ctx.Done():
			return false
		}
	}
	return ctx.Err() == nil
}
