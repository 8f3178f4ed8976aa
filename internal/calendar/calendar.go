package calendar

import (
	"fmt"
	"time"

	"github.com/Joseda-hg/studentguide/internal/model"
	"github.com/Joseda-hg/studentguide/internal/session"
)

type Day struct {
	Number    int
	Tasks     []model.Task
	Reminders []model.Reminder
}

func (d Day) Busy() bool {
	return len(d.Tasks) > 0 || len(d.Reminders) > 0
}

type Month struct {
	Year  int
	Month time.Month
	// Days is indexed by day of month minus one.
	Days []Day
}

func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

func (m Month) Day(n int) (Day, bool) {
	if n < 1 || n > len(m.Days) {
		return Day{}, false
	}
	return m.Days[n-1], true
}

// Build places tasks on their due dates and active reminders on their dates
// within the given month. Entries with missing or unreadable dates are
// skipped.
func Build(year int, month time.Month, tasks []model.Task, reminders []model.Reminder) Month {
	m := Month{Year: year, Month: month, Days: make([]Day, DaysIn(year, month))}
	for i := range m.Days {
		m.Days[i].Number = i + 1
	}

	for _, task := range tasks {
		due, ok := task.Due()
		if !ok || due.Year() != year || due.Month() != month {
			continue
		}
		day := &m.Days[due.Day()-1]
		day.Tasks = append(day.Tasks, task)
	}
	for _, reminder := range reminders {
		if !reminder.Active() {
			continue
		}
		at, err := reminder.Time()
		if err != nil || at.Year() != year || at.Month() != month {
			continue
		}
		day := &m.Days[at.Day()-1]
		day.Reminders = append(day.Reminders, reminder)
	}
	return m
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func Prev(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

func Next(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// Grid lays the month out in Monday-first weeks. Cells outside the month
// are zero.
func Grid(year int, month time.Month) [][7]int {
	offset := (int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()) + 6) % 7
	days := DaysIn(year, month)

	var weeks [][7]int
	var week [7]int
	col := offset
	for day := 1; day <= days; day++ {
		week[col] = day
		col++
		if col == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			col = 0
		}
	}
	if col > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}

type TaskSource interface {
	Items(sess *session.Session) ([]model.Task, error)
}

type ReminderSource interface {
	Items(sess *session.Session) ([]model.Reminder, error)
}

// Service builds months from the live boards.
type Service struct {
	tasks     TaskSource
	reminders ReminderSource
}

func NewService(tasks TaskSource, reminders ReminderSource) *Service {
	return &Service{tasks: tasks, reminders: reminders}
}

func (s *Service) Month(sess *session.Session, year int, month time.Month) (Month, error) {
	tasks, err := s.tasks.Items(sess)
	if err != nil {
		return Month{}, fmt.Errorf("load tasks: %w", err)
	}
	reminders, err := s.reminders.Items(sess)
	if err != nil {
		return Month{}, fmt.Errorf("load reminders: %w", err)
	}
	return Build(year, month, tasks, reminders), nil
}
