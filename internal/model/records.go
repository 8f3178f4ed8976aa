package model

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "Pending"
	TaskCompleted TaskStatus = "Completed"
)

type Task struct {
	Description string     `json:"task"`
	DueDate     string     `json:"due_date"`
	Status      TaskStatus `json:"status"`
	CreatedAt   Timestamp  `json:"created_at"`
}

func NewTask(description, due string, now time.Time) (Task, error) {
	task := Task{
		Description: strings.TrimSpace(description),
		DueDate:     strings.TrimSpace(due),
		Status:      TaskPending,
		CreatedAt:   NewTimestamp(now),
	}
	if task.DueDate == "" {
		task.DueDate = NoDueDate
	}
	return task, task.Validate()
}

func (t Task) Validate() error {
	if err := required("description", t.Description); err != nil {
		return err
	}
	if t.DueDate != NoDueDate {
		if err := validDate("due_date", t.DueDate); err != nil {
			return err
		}
	}
	switch t.Status {
	case TaskPending, TaskCompleted:
	default:
		return invalid("status", "must be Pending or Completed")
	}
	return nil
}

// Due reports the task's due date, if it has a readable one.
func (t Task) Due() (time.Time, bool) {
	if t.DueDate == "" || t.DueDate == NoDueDate {
		return time.Time{}, false
	}
	d, err := ParseDate(t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

type PlanStatus string

const (
	PlanPlanned    PlanStatus = "Planned"
	PlanInProgress PlanStatus = "In Progress"
	PlanCompleted  PlanStatus = "Completed"
)

// Next is the forward-only successor; Completed is terminal.
func (s PlanStatus) Next() PlanStatus {
	switch s {
	case PlanPlanned:
		return PlanInProgress
	default:
		return PlanCompleted
	}
}

type StudyPlan struct {
	Subject string     `json:"subject"`
	Topic   string     `json:"topic"`
	DueDate string     `json:"due_date"`
	Status  PlanStatus `json:"status"`
}

func NewStudyPlan(subject, topic, due string, status PlanStatus) (StudyPlan, error) {
	if status == "" {
		status = PlanPlanned
	}
	plan := StudyPlan{
		Subject: strings.TrimSpace(subject),
		Topic:   strings.TrimSpace(topic),
		DueDate: strings.TrimSpace(due),
		Status:  status,
	}
	return plan, plan.Validate()
}

func (p StudyPlan) Validate() error {
	if err := required("subject", p.Subject); err != nil {
		return err
	}
	if err := required("topic", p.Topic); err != nil {
		return err
	}
	if p.DueDate != "" {
		if err := validDate("due_date", p.DueDate); err != nil {
			return err
		}
	}
	switch p.Status {
	case PlanPlanned, PlanInProgress, PlanCompleted:
	default:
		return invalid("status", "must be Planned, In Progress or Completed")
	}
	return nil
}

type DoubtStatus string

const (
	DoubtUnresolved DoubtStatus = "Unresolved"
	DoubtResolved   DoubtStatus = "Resolved"
)

type Doubt struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Status      DoubtStatus `json:"status"`
}

func NewDoubt(title, description string, status DoubtStatus) (Doubt, error) {
	if status == "" {
		status = DoubtUnresolved
	}
	doubt := Doubt{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Status:      status,
	}
	return doubt, doubt.Validate()
}

func (d Doubt) Validate() error {
	if err := required("title", d.Title); err != nil {
		return err
	}
	if err := required("description", d.Description); err != nil {
		return err
	}
	switch d.Status {
	case DoubtUnresolved, DoubtResolved:
	default:
		return invalid("status", "must be Unresolved or Resolved")
	}
	return nil
}

type ProgressEntry struct {
	Topic    string `json:"topic"`
	Progress int    `json:"progress"`
}

func NewProgressEntry(topic string, progress int) (ProgressEntry, error) {
	entry := ProgressEntry{Topic: strings.TrimSpace(topic), Progress: progress}
	return entry, entry.Validate()
}

func (p ProgressEntry) Validate() error {
	if err := required("topic", p.Topic); err != nil {
		return err
	}
	if p.Progress < 0 || p.Progress > 100 {
		return invalid("progress", "must be between 0 and 100")
	}
	return nil
}

// Moods is the fixed set of mood labels, in display order.
var Moods = []string{"Good 😊", "Okay 😐", "Stressed 😟", "Happy 😄", "Sad 😢"}

type MoodEntry struct {
	Mood      string    `json:"mood"`
	Notes     string    `json:"notes"`
	Timestamp Timestamp `json:"timestamp"`
}

func NewMoodEntry(mood, notes string, now time.Time) (MoodEntry, error) {
	entry := MoodEntry{Mood: mood, Notes: strings.TrimSpace(notes), Timestamp: NewTimestamp(now)}
	return entry, entry.Validate()
}

func (m MoodEntry) Validate() error {
	for _, mood := range Moods {
		if mood == m.Mood {
			return nil
		}
	}
	return invalid("mood", "must be one of "+strings.Join(Moods, ", "))
}

type ReminderStatus string

const (
	ReminderActive    ReminderStatus = "active"
	ReminderDismissed ReminderStatus = "dismissed"
)

// Reminder keeps its target time as text so that a malformed stored value
// can be skipped by readers instead of failing the whole collection.
type Reminder struct {
	ID       string         `json:"id"`
	Message  string         `json:"message"`
	Datetime string         `json:"datetime"`
	Status   ReminderStatus `json:"status"`
}

func NewReminder(id, message, date, clock string) (Reminder, error) {
	if err := required("message", message); err != nil {
		return Reminder{}, err
	}
	if err := required("date", date); err != nil {
		return Reminder{}, err
	}
	if err := required("time", clock); err != nil {
		return Reminder{}, err
	}
	at, err := time.ParseInLocation(DateLayout+" "+ClockLayout, strings.TrimSpace(date)+" "+strings.TrimSpace(clock), time.Local)
	if err != nil {
		return Reminder{}, invalid("datetime", "date must be YYYY-MM-DD and time HH:MM (24-hour)")
	}
	reminder := Reminder{
		ID:       id,
		Message:  strings.TrimSpace(message),
		Datetime: at.Format(TimestampLayout),
		Status:   ReminderActive,
	}
	return reminder, reminder.Validate()
}

func (r Reminder) Validate() error {
	if err := required("id", r.ID); err != nil {
		return err
	}
	if err := required("message", r.Message); err != nil {
		return err
	}
	if _, err := r.Time(); err != nil {
		return invalid("datetime", err.Error())
	}
	switch r.Status {
	case ReminderActive, ReminderDismissed:
	default:
		return invalid("status", "must be active or dismissed")
	}
	return nil
}

func (r Reminder) Time() (time.Time, error) {
	return ParseTimestamp(r.Datetime)
}

func (r Reminder) Active() bool {
	return r.Status == ReminderActive
}

type TimerType string

const (
	TimerWork   TimerType = "Pomodoro"
	TimerBreak  TimerType = "Break"
	TimerCustom TimerType = "My Timer"
)

type TimerEntry struct {
	Type            TimerType `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
	Timestamp       Timestamp `json:"timestamp"`
}

func (e TimerEntry) Validate() error {
	switch e.Type {
	case TimerWork, TimerBreak, TimerCustom:
	default:
		return invalid("type", "unknown timer type")
	}
	if e.DurationMinutes <= 0 {
		return invalid("duration_minutes", "must be positive")
	}
	return nil
}
