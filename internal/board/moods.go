package board

import (
	"context"
	"time"

	"github.com/Joseda-hg/studentguide/internal/model"
	"github.com/Joseda-hg/studentguide/internal/session"
	"github.com/Joseda-hg/studentguide/internal/store"
)

// MoodLog is append-only.
type MoodLog struct {
	list *List[model.MoodEntry]
	now  func() time.Time
}

func NewMoodLog(s *store.RecordStore) *MoodLog {
	return &MoodLog{list: NewList[model.MoodEntry](s), now: time.Now}
}

func (m *MoodLog) Log(ctx context.Context, sess *session.Session, mood, notes string) (model.MoodEntry, error) {
	entry, err := model.NewMoodEntry(mood, notes, m.now())
	if err != nil {
		return model.MoodEntry{}, err
	}
	return entry, m.list.Append(ctx, sess, entry)
}

func (m *MoodLog) Items(sess *session.Session) ([]model.MoodEntry, error) {
	return m.list.Items(sess)
}

// Recent returns the last n entries, newest first.
func (m *MoodLog) Recent(sess *session.Session, n int) ([]model.MoodEntry, error) {
	items, err := m.list.Items(sess)
	if err != nil {
		return nil, err
	}
	return recent(items, n), nil
}

// TimerHistory is the append-only log of completed timers.
type TimerHistory struct {
	list *List[model.TimerEntry]
}

func NewTimerHistory(s *store.RecordStore) *TimerHistory {
	return &TimerHistory{list: NewList[model.TimerEntry](s)}
}

func (h *TimerHistory) Append(ctx context.Context, sess *session.Session, entry model.TimerEntry) error {
	return h.list.Append(ctx, sess, entry)
}

func (h *TimerHistory) Items(sess *session.Session) ([]model.TimerEntry, error) {
	return h.list.Items(sess)
}

func (h *TimerHistory) Recent(sess *session.Session, n int) ([]model.TimerEntry, error) {
	items, err := h.list.Items(sess)
	if err != nil {
		return nil, err
	}
	return recent(items, n), nil
}
