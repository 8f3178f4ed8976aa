package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jesseduffield/gocui"

	"github.com/Joseda-hg/studentguide/internal/board"
	"github.com/Joseda-hg/studentguide/internal/model"
	"github.com/Joseda-hg/studentguide/internal/syllabus"
)

type formKind int

const (
	formLogin formKind = iota
	formRegister
	formProfile
	formTask
	formPlan
	formDoubt
	formImportDoubt
	formProgress
	formMood
	formReminder
	formCustomTimer
	formUpload
)

type formField struct {
	Label string
	Value string
	// Options makes the field a choice cycled with space and arrows.
	Options []string
	Secret  bool
}

type formState struct {
	kind   formKind
	fields []formField
	index  int
}

type formEditor struct {
	ui *UI
}

func formTitle(kind formKind) string {
	switch kind {
	case formLogin:
		return "Login (ctrl+r register)"
	case formRegister:
		return "Register (ctrl+r back to login)"
	case formProfile:
		return "Edit Profile"
	case formTask:
		return "New Task"
	case formPlan:
		return "New Study Plan"
	case formDoubt:
		return "New Doubt"
	case formImportDoubt:
		return "Import Doubt"
	case formProgress:
		return "Set Progress"
	case formMood:
		return "Log Mood"
	case formReminder:
		return "New Reminder"
	case formCustomTimer:
		return "My Timer"
	case formUpload:
		return "Upload Syllabus"
	default:
		return "Form"
	}
}

func buildFormFields(kind formKind, user model.User) []formField {
	switch kind {
	case formLogin:
		return []formField{
			{Label: "Username"},
			{Label: "Password", Secret: true},
		}
	case formRegister:
		courses := model.Courses()
		return []formField{
			{Label: "Username"},
			{Label: "Password", Secret: true},
			{Label: "Name"},
			{Label: "Email"},
			{Label: "Course (space/←→)", Value: courses[0], Options: courses},
			{Label: "Section (space/←→)", Value: model.Sections[courses[0]][0], Options: model.Sections[courses[0]]},
		}
	case formProfile:
		return []formField{
			{Label: "Name", Value: user.Name},
			{Label: "Email", Value: user.Email},
		}
	case formTask:
		return []formField{
			{Label: "Description"},
			{Label: "Due (YYYY-MM-DD, optional)"},
		}
	case formPlan:
		statuses := []string{string(model.PlanPlanned), string(model.PlanInProgress), string(model.PlanCompleted)}
		return []formField{
			{Label: "Subject"},
			{Label: "Topic"},
			{Label: "Due (YYYY-MM-DD, optional)"},
			{Label: "Status (space/←→)", Value: statuses[0], Options: statuses},
		}
	case formDoubt:
		statuses := []string{string(model.DoubtUnresolved), string(model.DoubtResolved)}
		return []formField{
			{Label: "Title"},
			{Label: "Description"},
			{Label: "Status (space/←→)", Value: statuses[0], Options: statuses},
		}
	case formImportDoubt:
		return []formField{{Label: "File path"}}
	case formProgress:
		return []formField{
			{Label: "Topic"},
			{Label: "Progress (0-100)", Value: "0"},
		}
	case formMood:
		return []formField{
			{Label: "Mood (space/←→)", Value: model.Moods[0], Options: model.Moods},
			{Label: "Notes"},
		}
	case formReminder:
		return []formField{
			{Label: "Message"},
			{Label: "Date (YYYY-MM-DD)"},
			{Label: "Time (HH:MM)"},
		}
	case formCustomTimer:
		return []formField{{Label: "Minutes"}}
	case formUpload:
		return []formField{
			{Label: "Subject (space/←→)", Value: syllabus.Subjects[0], Options: syllabus.Subjects},
			{Label: "File path"},
		}
	default:
		return nil
	}
}

func (f *formState) value(index int) string {
	return strings.TrimSpace(f.fields[index].Value)
}

// submit applies the form. A returned error is shown in the status line and
// leaves the form open.
func (u *UI) submit(ctx context.Context, form *formState) error {
	switch form.kind {
	case formLogin:
		user, err := u.deps.Users.Authenticate(form.value(0), form.fields[1].Value)
		if err != nil {
			return err
		}
		return u.startSession(user)
	case formRegister:
		user, err := u.deps.Users.Register(ctx, form.value(0), form.fields[1].Value, form.value(2), form.value(3), form.value(4), form.value(5))
		if err != nil {
			return err
		}
		u.openLogin(user.ID)
		u.status = fmt.Sprintf("Registered %s, please log in", user.ID)
		return nil
	case formProfile:
		user, err := u.deps.Users.UpdateProfile(ctx, u.sess.UserID, form.value(0), form.value(1))
		if err != nil {
			return err
		}
		u.user = user
		u.status = "Profile updated"
	case formTask:
		if _, err := u.tasks.Add(ctx, u.sess, form.value(0), form.value(1)); err != nil {
			return err
		}
	case formPlan:
		if _, err := u.plans.Add(ctx, u.sess, form.value(0), form.value(1), form.value(2), model.PlanStatus(form.value(3))); err != nil {
			return err
		}
	case formDoubt:
		if _, err := u.doubts.Add(ctx, u.sess, form.value(0), form.value(1), model.DoubtStatus(form.value(2))); err != nil {
			return err
		}
	case formImportDoubt:
		doubt, err := board.ReadDoubtFile(form.value(0))
		if err != nil {
			return err
		}
		if err := u.doubts.Append(ctx, u.sess, doubt); err != nil {
			return err
		}
		u.status = fmt.Sprintf("Imported %q", doubt.Title)
	case formProgress:
		percent, err := strconv.Atoi(form.value(1))
		if err != nil {
			return fmt.Errorf("progress must be a whole number between 0 and 100")
		}
		updated, err := u.progress.Set(ctx, u.sess, form.value(0), percent)
		if err != nil {
			return err
		}
		if updated {
			u.status = "Progress updated"
		}
	case formMood:
		if _, err := u.moods.Log(ctx, u.sess, form.value(0), form.value(1)); err != nil {
			return err
		}
	case formReminder:
		if _, err := u.reminders.Add(ctx, u.sess, form.value(0), form.value(1), form.value(2)); err != nil {
			return err
		}
	case formCustomTimer:
		if err := u.timer.StartCustom(form.fields[0].Value); err != nil {
			return err
		}
	case formUpload:
		path, err := u.deps.Syllabus.Upload(form.value(0), form.value(1))
		if err != nil {
			return err
		}
		u.status = "Uploaded " + path
	}
	return nil
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil {
		return false
	}
	ui.editField(key, ch, mod)
	ui.renderForm(view)
	return true
}

func (u *UI) editField(key gocui.Key, ch rune, mod gocui.Modifier) {
	field := &u.form.fields[u.form.index]

	if field.Options != nil {
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = cycleOption(field.Options, field.Value, 1)
		case gocui.KeyArrowLeft:
			field.Value = cycleOption(field.Options, field.Value, -1)
		}
		u.syncSectionOptions()
		return
	}

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}
}

// syncSectionOptions keeps the register form's section choices in line with
// the chosen course.
func (u *UI) syncSectionOptions() {
	if u.form == nil || u.form.kind != formRegister {
		return
	}
	course := &u.form.fields[4]
	section := &u.form.fields[5]
	options := model.Sections[course.Value]
	section.Options = options
	for _, option := range options {
		if option == section.Value {
			return
		}
	}
	if len(options) > 0 {
		section.Value = options[0]
	}
}

func cycleOption(options []string, current string, delta int) string {
	if len(options) == 0 {
		return ""
	}
	index := 0
	for i, option := range options {
		if option == current {
			index = i
			break
		}
	}
	index = (index + delta + len(options)) % len(options)
	return options[index]
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		value := field.Value
		if field.Secret {
			value = strings.Repeat("*", len([]rune(value)))
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, value)
	}
	if u.status != "" {
		fmt.Fprintf(view, "\n%s", u.status)
	}
	label := u.form.fields[u.form.index].Label + ": "
	cursorX := len([]rune(label)) + len([]rune(u.form.fields[u.form.index].Value)) + 2
	view.SetCursor(cursorX, u.form.index)
}
