package board

import (
	"context"

	"github.com/Joseda-hg/studentguide/internal/model"
	"github.com/Joseda-hg/studentguide/internal/session"
	"github.com/Joseda-hg/studentguide/internal/store"
)

type PlanBoard struct {
	*List[model.StudyPlan]
}

func NewPlanBoard(s *store.RecordStore) *PlanBoard {
	return &PlanBoard{List: NewList[model.StudyPlan](s)}
}

func (b *PlanBoard) Add(ctx context.Context, sess *session.Session, subject, topic, due string, status model.PlanStatus) (model.StudyPlan, error) {
	plan, err := model.NewStudyPlan(subject, topic, due, status)
	if err != nil {
		return model.StudyPlan{}, err
	}
	return plan, b.Append(ctx, sess, plan)
}

// Advance moves every selected plan one step forward and returns how many
// plans were selected. Completed plans stay completed but are still
// deselected.
func (b *PlanBoard) Advance(ctx context.Context, sess *session.Session) (int, error) {
	return b.ApplySelected(ctx, sess, func(plan *model.StudyPlan) bool {
		plan.Status = plan.Status.Next()
		return true
	})
}
