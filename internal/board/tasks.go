package board

import (
	"context"
	"time"

	"github.com/Joseda-hg/studentguide/internal/model"
	"github.com/Joseda-hg/studentguide/internal/session"
	"github.com/Joseda-hg/studentguide/internal/store"
)

type TaskBoard struct {
	*List[model.Task]
	now func() time.Time
}

func NewTaskBoard(s *store.RecordStore) *TaskBoard {
	return &TaskBoard{List: NewList[model.Task](s), now: time.Now}
}

func (b *TaskBoard) Add(ctx context.Context, sess *session.Session, description, due string) (model.Task, error) {
	task, err := model.NewTask(description, due, b.now())
	if err != nil {
		return model.Task{}, err
	}
	return task, b.Append(ctx, sess, task)
}

// MarkCompleted completes the selected pending tasks. Selected tasks that are
// already completed are only deselected.
func (b *TaskBoard) MarkCompleted(ctx context.Context, sess *session.Session) (int, error) {
	return b.ApplySelected(ctx, sess, func(task *model.Task) bool {
		if task.Status != model.TaskPending {
			return false
		}
		task.Status = model.TaskCompleted
		return true
	})
}

// RevertToPending is the reverse of MarkCompleted.
func (b *TaskBoard) RevertToPending(ctx context.Context, sess *session.Session) (int, error) {
	return b.ApplySelected(ctx, sess, func(task *model.Task) bool {
		if task.Status != model.TaskCompleted {
			return false
		}
		task.Status = model.TaskPending
		return true
	})
}

// ToggleStatus flips a single task between Pending and Completed.
func (b *TaskBoard) ToggleStatus(ctx context.Context, sess *session.Session, index int) (model.TaskStatus, error) {
	var status model.TaskStatus
	err := b.UpdateAt(ctx, sess, index, func(task *model.Task) {
		if task.Status == model.TaskCompleted {
			task.Status = model.TaskPending
		} else {
			task.Status = model.TaskCompleted
		}
		status = task.Status
	})
	return status, err
}
