package board

import (
	"context"
	"strings"

	"github.com/Joseda-hg/studentguide/internal/model"
	"github.com/Joseda-hg/studentguide/internal/session"
	"github.com/Joseda-hg/studentguide/internal/store"
)

type ProgressTracker struct {
	*List[model.ProgressEntry]
}

func NewProgressTracker(s *store.RecordStore) *ProgressTracker {
	return &ProgressTracker{List: NewList[model.ProgressEntry](s)}
}

// Set records percent for topic. An existing topic (matched without regard
// to case) is overwritten in place; it reports whether that happened.
func (t *ProgressTracker) Set(ctx context.Context, sess *session.Session, topic string, percent int) (bool, error) {
	entry, err := model.NewProgressEntry(topic, percent)
	if err != nil {
		return false, err
	}

	updated := false
	err = store.Update(ctx, t.store, sess.UserID, func(items *[]model.ProgressEntry) error {
		for i := range *items {
			if strings.EqualFold((*items)[i].Topic, entry.Topic) {
				(*items)[i].Progress = entry.Progress
				updated = true
				return nil
			}
		}
		*items = append(*items, entry)
		return nil
	})
	if err != nil {
		return false, err
	}
	return updated, nil
}
