package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Joseda-hg/studentguide/internal/config"
	"github.com/Joseda-hg/studentguide/internal/logger"
	"github.com/Joseda-hg/studentguide/internal/model"
	"github.com/Joseda-hg/studentguide/internal/pomodoro"
	"github.com/Joseda-hg/studentguide/internal/reminder"
	"github.com/Joseda-hg/studentguide/internal/store"
	"github.com/Joseda-hg/studentguide/internal/syllabus"
	"github.com/Joseda-hg/studentguide/internal/users"
)

type recordingAlerter struct {
	messages []string
}

func (a *recordingAlerter) Alert(message string) {
	a.messages = append(a.messages, message)
}

func TestLoginWithDefaultUser(t *testing.T) {
	ui, _ := newTestUI(t)

	if ui.form == nil || ui.form.kind != formLogin {
		t.Fatalf("expected login form on start")
	}
	if err := ui.quit(nil, nil); err != nil {
		t.Fatalf("quit should be ignored before login, got %v", err)
	}

	login(t, ui, users.DefaultUserID, "wrong")
	if ui.sess != nil {
		t.Fatalf("expected login to fail with a bad password")
	}
	if ui.form == nil || ui.status == "" {
		t.Fatalf("expected the form to stay open with an error")
	}

	login(t, ui, users.DefaultUserID, users.DefaultPassword)
	if ui.sess == nil || ui.sess.UserID != users.DefaultUserID {
		t.Fatalf("expected a session for the default user")
	}
	if ui.form != nil {
		t.Fatalf("expected the form to close after login")
	}
	if ui.user.Name != "Default User" {
		t.Fatalf("unexpected user %+v", ui.user)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	ui, _ := newTestUI(t)

	if err := ui.toggleRegister(nil, nil); err != nil {
		t.Fatalf("toggle register: %v", err)
	}
	if ui.form.kind != formRegister {
		t.Fatalf("expected register form")
	}
	fields := ui.form.fields
	fields[0].Value = "alice"
	fields[1].Value = "secret"
	fields[2].Value = "Alice"
	fields[3].Value = "alice@example.com"
	if err := ui.submitFormNow(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ui.form == nil || ui.form.kind != formLogin || ui.form.fields[0].Value != "alice" {
		t.Fatalf("expected login form prefilled with alice, got %+v", ui.form)
	}

	ui.form.fields[1].Value = "secret"
	if err := ui.submitFormNow(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ui.sess == nil || ui.sess.UserID != "alice" {
		t.Fatalf("expected alice to be logged in")
	}
}

func TestAddAndCompleteTask(t *testing.T) {
	ui, _ := newTestUI(t)
	login(t, ui, users.DefaultUserID, users.DefaultPassword)

	if err := ui.openAddForm(nil, nil); err != nil {
		t.Fatalf("open add form: %v", err)
	}
	if ui.form == nil || ui.form.kind != formTask {
		t.Fatalf("expected task form")
	}
	ui.form.fields[0].Value = "Read chapter 3"
	ui.form.fields[1].Value = "2025-07-01"
	if err := ui.submitFormNow(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(ui.data.tasks) != 1 || ui.data.tasks[0].Status != model.TaskPending {
		t.Fatalf("unexpected tasks %+v", ui.data.tasks)
	}

	if err := ui.primaryAction(nil, nil); err != nil {
		t.Fatalf("primary action: %v", err)
	}
	if !strings.Contains(ui.status, "Nothing selected") {
		t.Fatalf("expected nothing selected status, got %q", ui.status)
	}

	if err := ui.toggleSelection(nil, nil); err != nil {
		t.Fatalf("toggle selection: %v", err)
	}
	if err := ui.primaryAction(nil, nil); err != nil {
		t.Fatalf("primary action: %v", err)
	}
	if ui.data.tasks[0].Status != model.TaskCompleted {
		t.Fatalf("expected task completed, got %s", ui.data.tasks[0].Status)
	}
	if ui.tasks.IsSelected(ui.sess, 0) {
		t.Fatalf("expected selection cleared")
	}

	if err := ui.toggleTaskStatus(nil, nil); err != nil {
		t.Fatalf("toggle status: %v", err)
	}
	if ui.data.tasks[0].Status != model.TaskPending {
		t.Fatalf("expected task pending again, got %s", ui.data.tasks[0].Status)
	}
}

func TestInvalidFormKeepsFormOpen(t *testing.T) {
	ui, _ := newTestUI(t)
	login(t, ui, users.DefaultUserID, users.DefaultPassword)
	ui.focus = viewProgress

	if err := ui.openAddForm(nil, nil); err != nil {
		t.Fatalf("open add form: %v", err)
	}
	ui.form.fields[0].Value = "Calculus"
	ui.form.fields[1].Value = "lots"
	if err := ui.submitFormNow(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ui.form == nil {
		t.Fatalf("expected form to stay open")
	}
	if !strings.Contains(ui.status, "whole number") {
		t.Fatalf("unexpected status %q", ui.status)
	}

	ui.form.fields[1].Value = "40"
	if err := ui.submitFormNow(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(ui.data.progress) != 1 || ui.data.progress[0].Progress != 40 {
		t.Fatalf("unexpected progress %+v", ui.data.progress)
	}
}

func TestReminderPopupDismisses(t *testing.T) {
	ui, alerter := newTestUI(t)
	login(t, ui, users.DefaultUserID, users.DefaultPassword)

	added, err := ui.reminders.Add(context.Background(), ui.sess, "Submit lab", "2025-06-30", "09:00")
	if err != nil {
		t.Fatalf("add reminder: %v", err)
	}
	due, _ := added.Time()
	if err := ui.onReminder(reminder.Notification{Reminder: added, Due: due}); err != nil {
		t.Fatalf("on reminder: %v", err)
	}
	if !ui.inputActive() {
		t.Fatalf("expected the popup to capture input")
	}
	if len(alerter.messages) != 1 || !strings.Contains(alerter.messages[0], "Submit lab") {
		t.Fatalf("unexpected alerts %v", alerter.messages)
	}

	if err := ui.dismissPopup(nil, nil); err != nil {
		t.Fatalf("dismiss popup: %v", err)
	}
	if len(ui.popups) != 0 {
		t.Fatalf("expected popup queue to drain")
	}
	if len(ui.data.reminders) != 1 || ui.data.reminders[0].Status != model.ReminderDismissed {
		t.Fatalf("expected reminder dismissed, got %+v", ui.data.reminders)
	}
}

func TestCalendarNavigationAndDetails(t *testing.T) {
	ui, _ := newTestUI(t)
	ui.now = func() time.Time { return time.Date(2025, time.December, 15, 10, 0, 0, 0, time.Local) }
	login(t, ui, users.DefaultUserID, users.DefaultPassword)

	if _, err := ui.tasks.Add(context.Background(), ui.sess, "Exam prep", "2026-01-15"); err != nil {
		t.Fatalf("add task: %v", err)
	}
	if err := ui.setFocus(nil, viewCalendar); err != nil {
		t.Fatalf("set focus: %v", err)
	}
	if err := ui.nextMonth(nil, nil); err != nil {
		t.Fatalf("next month: %v", err)
	}
	if ui.calYear != 2026 || ui.calMonth != time.January {
		t.Fatalf("unexpected month %d-%d", ui.calYear, ui.calMonth)
	}

	if err := ui.openItem(nil, nil); err != nil {
		t.Fatalf("open item: %v", err)
	}
	if !strings.Contains(ui.info, "Exam prep") {
		t.Fatalf("expected day details to list the task, got %q", ui.info)
	}
	if err := ui.closeInfo(nil, nil); err != nil {
		t.Fatalf("close info: %v", err)
	}

	if err := ui.prevMonth(nil, nil); err != nil {
		t.Fatalf("prev month: %v", err)
	}
	if ui.calYear != 2025 || ui.calMonth != time.December {
		t.Fatalf("unexpected month %d-%d", ui.calYear, ui.calMonth)
	}
}

func TestTimerCompletionUpdatesStatus(t *testing.T) {
	ui, _ := newTestUI(t)
	login(t, ui, users.DefaultUserID, users.DefaultPassword)
	ui.focus = viewTimer

	if err := ui.customTimer(nil, nil); err != nil {
		t.Fatalf("custom timer: %v", err)
	}
	ui.form.fields[0].Value = "0"
	if err := ui.submitFormNow(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ui.form == nil || ui.status == "" {
		t.Fatalf("expected custom timer input to be rejected")
	}
	ui.form = nil

	if err := ui.onTimerEvent(pomodoro.Event{Kind: pomodoro.EventCompleted, Finished: model.TimerWork}); err != nil {
		t.Fatalf("on timer event: %v", err)
	}
	if !strings.Contains(ui.status, "Time for a break") {
		t.Fatalf("unexpected status %q", ui.status)
	}
}

func TestAddDoubtWithChosenStatus(t *testing.T) {
	ui, _ := newTestUI(t)
	login(t, ui, users.DefaultUserID, users.DefaultPassword)
	ui.focus = viewDoubts

	if err := ui.openAddForm(nil, nil); err != nil {
		t.Fatalf("open add form: %v", err)
	}
	ui.form.fields[0].Value = "Limits"
	ui.form.fields[1].Value = "Cleared up in tutorial"
	ui.form.fields[2].Value = cycleOption(ui.form.fields[2].Options, ui.form.fields[2].Value, 1)
	if err := ui.submitFormNow(nil, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(ui.data.doubts) != 1 || ui.data.doubts[0].Status != model.DoubtResolved {
		t.Fatalf("unexpected doubts %+v", ui.data.doubts)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	ui, _ := newTestUI(t)
	login(t, ui, users.DefaultUserID, users.DefaultPassword)

	if err := ui.logout(nil, nil); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if ui.sess != nil || ui.timer != nil {
		t.Fatalf("expected session to end")
	}
	if ui.form == nil || ui.form.kind != formLogin {
		t.Fatalf("expected login form after logout")
	}
}

func TestComputeLayoutPlacesEveryPane(t *testing.T) {
	layout := computeLayout(120, 1, 40)
	for _, name := range panes {
		r, ok := layout[name]
		if !ok {
			t.Fatalf("missing pane %s", name)
		}
		if r.x1 <= r.x0 || r.y1 <= r.y0 {
			t.Fatalf("degenerate rect for %s: %+v", name, r)
		}
	}
}

func login(t *testing.T, ui *UI, username, password string) {
	t.Helper()
	ui.openLogin(username)
	ui.form.fields[1].Value = password
	if err := ui.submitFormNow(nil, nil); err != nil {
		t.Fatalf("submit login: %v", err)
	}
}

func newTestUI(t *testing.T) (*UI, *recordingAlerter) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	log := logger.Nop()

	stores, err := store.OpenAll(ctx, store.NewFileBackend(dir), log)
	if err != nil {
		t.Fatalf("open stores: %v", err)
	}
	directory := users.NewDirectory(stores.Users, log)
	if err := directory.EnsureDefault(ctx); err != nil {
		t.Fatalf("ensure default: %v", err)
	}

	cfg := config.Default()
	cfg.Resolve(filepath.Join(dir, "config.json"))
	alerter := &recordingAlerter{}
	ui := New(Deps{
		Config:   cfg,
		Stores:   stores,
		Users:    directory,
		Syllabus: syllabus.NewLibrary(cfg.SyllabusDir),
		Alert:    alerter,
		Log:      log,
	})
	return ui, alerter
}
