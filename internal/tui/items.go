package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/studentguide/internal/calendar"
	"github.com/Joseda-hg/studentguide/internal/model"
)

func selectionMark(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

func formatTask(task model.Task) string {
	return fmt.Sprintf("%s | due %s | %s", task.Description, task.DueDate, task.Status)
}

func formatPlan(plan model.StudyPlan) string {
	due := plan.DueDate
	if due == "" {
		due = "n/a"
	}
	return fmt.Sprintf("%s: %s | due %s | %s", plan.Subject, plan.Topic, due, plan.Status)
}

func formatDoubt(doubt model.Doubt) string {
	return fmt.Sprintf("%s | %s", doubt.Title, doubt.Status)
}

func formatProgress(entry model.ProgressEntry) string {
	filled := entry.Progress / 10
	return fmt.Sprintf("%s [%s%s] %d%%", entry.Topic, strings.Repeat("#", filled), strings.Repeat("-", 10-filled), entry.Progress)
}

func formatMood(entry model.MoodEntry) string {
	line := fmt.Sprintf("%s | %s", entry.Timestamp.Display(), entry.Mood)
	if entry.Notes != "" {
		line += " | " + entry.Notes
	}
	return line
}

func formatReminder(reminder model.Reminder) string {
	when := "Invalid Time"
	if at, err := reminder.Time(); err == nil {
		when = at.Format(model.DisplayLayout)
	}
	return fmt.Sprintf("%s | %s | %s", reminder.Message, when, reminder.Status)
}

func formatTimerEntry(entry model.TimerEntry) string {
	return fmt.Sprintf("%s | %s | %d min", entry.Timestamp.Display(), entry.Type, entry.DurationMinutes)
}

// calendarLines renders a month grid. Busy days carry '*' and the cursor day
// carries '<'.
func calendarLines(month calendar.Month, cursorDay int) []string {
	lines := []string{
		fmt.Sprintf("  %s   (h/l month)", month.Title()),
		"Mo  Tu  We  Th  Fr  Sa  Su",
	}
	for _, week := range calendar.Grid(month.Year, month.Month) {
		cells := make([]string, 0, len(week))
		for _, day := range week {
			if day == 0 {
				cells = append(cells, "   ")
				continue
			}
			mark := ' '
			if d, ok := month.Day(day); ok && d.Busy() {
				mark = '*'
			}
			if day == cursorDay {
				mark = '<'
			}
			cells = append(cells, fmt.Sprintf("%2d%c", day, mark))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return lines
}

func dayDetails(month calendar.Month, dayNumber int) string {
	day, ok := month.Day(dayNumber)
	if !ok {
		return ""
	}
	date := time.Date(month.Year, month.Month, dayNumber, 0, 0, 0, 0, time.Local)
	lines := []string{date.Format("Monday, 2006-01-02"), ""}
	if !day.Busy() {
		return strings.Join(append(lines, "No tasks or reminders for this day."), "\n")
	}
	if len(day.Tasks) > 0 {
		lines = append(lines, "Tasks:")
		for _, task := range day.Tasks {
			lines = append(lines, fmt.Sprintf("  • %s (%s)", task.Description, task.Status))
		}
	}
	if len(day.Reminders) > 0 {
		lines = append(lines, "Reminders:")
		for _, reminder := range day.Reminders {
			when := "(Invalid Time)"
			if at, err := reminder.Time(); err == nil {
				when = "at " + at.Format(model.ClockLayout)
			}
			lines = append(lines, fmt.Sprintf("  • %s %s", reminder.Message, when))
		}
	}
	return strings.Join(lines, "\n")
}
