package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
	"golang.org/x/sync/errgroup"

	"github.com/Joseda-hg/studentguide/internal/alert"
	"github.com/Joseda-hg/studentguide/internal/board"
	"github.com/Joseda-hg/studentguide/internal/calendar"
	"github.com/Joseda-hg/studentguide/internal/config"
	"github.com/Joseda-hg/studentguide/internal/logger"
	"github.com/Joseda-hg/studentguide/internal/model"
	"github.com/Joseda-hg/studentguide/internal/pomodoro"
	"github.com/Joseda-hg/studentguide/internal/reminder"
	"github.com/Joseda-hg/studentguide/internal/session"
	"github.com/Joseda-hg/studentguide/internal/store"
	"github.com/Joseda-hg/studentguide/internal/syllabus"
	"github.com/Joseda-hg/studentguide/internal/users"
)

const (
	viewHeader    = "header"
	viewFooter    = "footer"
	viewTasks     = "tasks"
	viewPlans     = "plans"
	viewDoubts    = "doubts"
	viewProgress  = "progress"
	viewMoods     = "moods"
	viewReminders = "reminders"
	viewTimer     = "timer"
	viewCalendar  = "calendar"
	viewHistory   = "history"
	viewSyllabus  = "syllabus"
	viewForm      = "form"
	viewInfo      = "info"
	viewPopup     = "popup"
)

// panes in focus order; the number keys 1-9 and 0 follow it.
var panes = []string{
	viewTasks, viewPlans, viewDoubts,
	viewProgress, viewMoods, viewReminders,
	viewTimer, viewCalendar, viewHistory, viewSyllabus,
}

var paneTitles = map[string]string{
	viewTasks:     "1 Tasks",
	viewPlans:     "2 Study Plans",
	viewDoubts:    "3 Doubts",
	viewProgress:  "4 Progress",
	viewMoods:     "5 Moods",
	viewReminders: "6 Reminders",
	viewTimer:     "7 Pomodoro",
	viewCalendar:  "8 Calendar",
	viewHistory:   "9 Timer History",
	viewSyllabus:  "0 Syllabus",
}

const moodHistoryLimit = 10

// Deps are the long-lived services the dashboard drives.
type Deps struct {
	Config   config.Config
	Stores   *store.Stores
	Users    *users.Directory
	Syllabus *syllabus.Library
	Alert    alert.Alerter
	Log      *logger.Logger
}

type UI struct {
	deps Deps
	gui  *gocui.Gui
	log  *logger.Logger
	now  func() time.Time

	tasks     *board.TaskBoard
	plans     *board.PlanBoard
	doubts    *board.DoubtLog
	progress  *board.ProgressTracker
	moods     *board.MoodLog
	history   *board.TimerHistory
	reminders *reminder.Scheduler
	calendar  *calendar.Service

	sess        *session.Session
	user        model.User
	timer       *pomodoro.Engine
	stopSession func()

	data     paneData
	focus    string
	cursor   map[string]int
	calYear  int
	calMonth time.Month

	form       *formState
	formEditor *formEditor
	infoTitle  string
	info       string
	popups     []reminder.Notification
	status     string
}

// paneData is what the panes render, refreshed by load.
type paneData struct {
	tasks     []model.Task
	plans     []model.StudyPlan
	doubts    []model.Doubt
	progress  []model.ProgressEntry
	moods     []model.MoodEntry
	reminders []model.Reminder
	history   []model.TimerEntry
	files     []string
	month     calendar.Month
}

func New(deps Deps) *UI {
	stores := deps.Stores
	u := &UI{
		deps:      deps,
		log:       deps.Log.With("component", "tui"),
		now:       time.Now,
		tasks:     board.NewTaskBoard(stores.Tasks),
		plans:     board.NewPlanBoard(stores.Plans),
		doubts:    board.NewDoubtLog(stores.Doubts),
		progress:  board.NewProgressTracker(stores.Progress),
		moods:     board.NewMoodLog(stores.Moods),
		history:   board.NewTimerHistory(stores.TimerHistory),
		reminders: reminder.NewScheduler(stores.Reminders, deps.Config.PollInterval(), deps.Log),
		focus:     viewTasks,
		cursor:    make(map[string]int),
	}
	u.calendar = calendar.NewService(u.tasks, u.reminders)
	u.formEditor = &formEditor{ui: u}
	u.openLogin("")
	return u
}

func Run(deps Deps) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := New(deps)
	ui.gui = gui
	gui.Mouse = true
	for _, warning := range deps.Stores.Warnings() {
		ui.status = warning.Error()
	}

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}

	err = gui.MainLoop()
	ui.endSession()
	if err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	global := []struct {
		key     interface{}
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, u.forceQuit},
		{'q', u.quit},
		{'r', u.reload},
		{'?', u.toggleHelp},
		{gocui.KeyTab, u.switchFocus},
		{'a', u.openAddForm},
		{'d', u.deleteSelected},
		{'x', u.primaryAction},
		{'u', u.revertTasks},
		{'t', u.toggleTaskStatus},
		{'e', u.exportDoubts},
		{'i', u.importDoubt},
		{'s', u.startTimer},
		{'p', u.pauseTimer},
		{'z', u.resetTimer},
		{'c', u.customTimer},
		{'h', u.prevMonth},
		{'l', u.nextMonth},
		{'P', u.editProfile},
		{'L', u.logout},
	}
	for _, binding := range global {
		if err := gui.SetKeybinding("", binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}
	for i, name := range panes {
		key := rune('1' + i)
		if i == 9 {
			key = '0'
		}
		name := name
		if err := gui.SetKeybinding("", key, gocui.ModNone, func(gui *gocui.Gui, _ *gocui.View) error {
			return u.setFocus(gui, name)
		}); err != nil {
			return err
		}
	}
	for _, name := range panes {
		for _, key := range []interface{}{gocui.KeyArrowDown, 'j'} {
			if err := gui.SetKeybinding(name, key, gocui.ModNone, u.moveDown); err != nil {
				return err
			}
		}
		for _, key := range []interface{}{gocui.KeyArrowUp, 'k'} {
			if err := gui.SetKeybinding(name, key, gocui.ModNone, u.moveUp); err != nil {
				return err
			}
		}
		if err := gui.SetKeybinding(name, gocui.KeySpace, gocui.ModNone, u.toggleSelection); err != nil {
			return err
		}
		if err := gui.SetKeybinding(name, gocui.KeyEnter, gocui.ModNone, u.openItem); err != nil {
			return err
		}
		name := name
		if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: name, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
			return u.onListClick(gui, name, opts)
		}}); err != nil {
			return err
		}
	}
	formKeys := []struct {
		key     interface{}
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyEnter, u.submitFormNow},
		{gocui.KeyCtrlJ, u.submitFormNow},
		{gocui.KeyTab, u.nextFormField},
		{gocui.KeyBacktab, u.prevFormField},
		{gocui.KeyArrowDown, u.nextFormField},
		{gocui.KeyArrowUp, u.prevFormField},
		{gocui.KeyEsc, u.cancelForm},
		{gocui.KeyCtrlR, u.toggleRegister},
	}
	for _, binding := range formKeys {
		if err := gui.SetKeybinding(viewForm, binding.key, gocui.ModNone, binding.handler); err != nil {
			return err
		}
	}
	for _, key := range []interface{}{gocui.KeyEsc, gocui.KeyEnter, 'q'} {
		if err := gui.SetKeybinding(viewInfo, key, gocui.ModNone, u.closeInfo); err != nil {
			return err
		}
	}
	for _, key := range []interface{}{gocui.KeyEsc, gocui.KeyEnter} {
		if err := gui.SetKeybinding(viewPopup, key, gocui.ModNone, u.dismissPopup); err != nil {
			return err
		}
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-2, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	if u.sess == nil {
		for _, name := range panes {
			_ = gui.DeleteView(name)
		}
	} else if footerY0-1 >= 1 {
		for name, r := range computeLayout(maxX, 1, footerY0-1) {
			view, err := gui.SetView(name, r.x0, r.y0, r.x1, r.y1, 0)
			if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
				return err
			}
			if goerrors.Is(err, gocui.ErrUnknownView) {
				view.Title = paneTitles[name]
			}
			applyViewStyle(view, u.focus == name, name != viewTimer && name != viewCalendar)
			u.renderPane(view, name)
		}
	}

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.info != "" {
		if err := u.showInfo(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewInfo)
	}

	if len(u.popups) > 0 {
		if err := u.showPopup(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewPopup)
	}

	if gui.CurrentView() == nil && u.sess != nil {
		_, _ = gui.SetCurrentView(u.focus)
	}
	gui.Cursor = u.form != nil
	return nil
}

type rect struct {
	x0, y0, x1, y1 int
}

// computeLayout places the panes in three columns between rows top and
// bottom.
func computeLayout(width, top, bottom int) map[string]rect {
	height := max(bottom-top+1, 12)
	colWidth := max(width/3, 20)
	right := max(width-1, 3*colWidth-1)

	out := make(map[string]rect, len(panes))
	stack := func(x0, x1 int, names []string, heights []int) {
		y := top
		for i, name := range names {
			h := heights[i]
			if i == len(names)-1 {
				h = max(top+height-y, 2)
			}
			out[name] = rect{x0: x0, y0: y, x1: x1, y1: y + h - 1}
			y += h
		}
	}

	third := height / 3
	stack(0, colWidth-1, []string{viewTasks, viewPlans, viewDoubts}, []int{third, third, 0})
	stack(colWidth, 2*colWidth-1, []string{viewProgress, viewMoods, viewReminders}, []int{third, third, 0})
	rest := max(height-5-10, 4)
	stack(2*colWidth, right, []string{viewTimer, viewCalendar, viewHistory, viewSyllabus}, []int{5, 10, rest - rest/2, 0})
	return out
}

func (u *UI) startSession(user model.User) error {
	u.sess = session.New(user.ID)
	u.user = user
	cfg := u.deps.Config
	sess := u.sess
	u.timer = pomodoro.New(pomodoro.Options{
		Work:  time.Duration(cfg.WorkMinutes) * time.Minute,
		Break: time.Duration(cfg.BreakMinutes) * time.Minute,
		Tick:  cfg.TickInterval(),
		Step:  time.Second,
	}, func(ctx context.Context, entry model.TimerEntry) error {
		return u.history.Append(ctx, sess, entry)
	}, u.deps.Alert, u.deps.Log)

	now := u.now()
	u.calYear, u.calMonth = now.Year(), now.Month()
	u.focus = viewTasks
	u.cursor = make(map[string]int)
	u.cursor[viewCalendar] = now.Day() - 1
	u.popups = nil
	u.form = nil
	u.status = fmt.Sprintf("Welcome, %s", user.Name)
	u.log.Info("session started", "user", user.ID)

	// The pumps post into the main loop, so they need a running gui.
	if u.gui != nil {
		if err := u.startPumps(); err != nil {
			return err
		}
	}
	u.load()
	return nil
}

// startPumps forwards reminder notifications and timer events onto the main
// loop until the session ends.
func (u *UI) startPumps() error {
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)

	notifications, err := u.reminders.Start(gctx, u.sess)
	if err != nil {
		cancel()
		return err
	}
	events := u.timer.Events()
	gui := u.gui

	g.Go(func() error {
		for n := range notifications {
			n := n
			gui.Update(func(*gocui.Gui) error {
				return u.onReminder(n)
			})
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev := <-events:
				gui.Update(func(*gocui.Gui) error {
					return u.onTimerEvent(ev)
				})
			}
		}
	})

	u.stopSession = func() {
		u.reminders.Stop()
		cancel()
		if err := g.Wait(); err != nil {
			u.log.Warn("session pumps", "error", err)
		}
	}
	return nil
}

func (u *UI) endSession() {
	if u.stopSession != nil {
		u.stopSession()
		u.stopSession = nil
	}
	if u.timer != nil {
		u.timer.Reset()
	}
	if u.sess != nil {
		u.log.Info("session ended", "user", u.sess.UserID)
	}
	u.sess = nil
	u.timer = nil
	u.popups = nil
	u.data = paneData{}
}

func (u *UI) load() {
	if u.sess == nil {
		u.data = paneData{}
		return
	}
	var errs []error
	keep := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	u.data.tasks, err = u.tasks.Items(u.sess)
	keep(err)
	u.data.plans, err = u.plans.Items(u.sess)
	keep(err)
	u.data.doubts, err = u.doubts.Items(u.sess)
	keep(err)
	u.data.progress, err = u.progress.Items(u.sess)
	keep(err)
	u.data.moods, err = u.moods.Recent(u.sess, moodHistoryLimit)
	keep(err)
	u.data.reminders, err = u.reminders.Items(u.sess)
	keep(err)
	u.data.history, err = u.history.Recent(u.sess, u.deps.Config.HistoryLimit)
	keep(err)
	u.data.files, err = u.deps.Syllabus.Files()
	keep(err)
	u.data.month, err = u.calendar.Month(u.sess, u.calYear, u.calMonth)
	keep(err)

	for _, name := range panes {
		if n := u.paneLen(name); u.cursor[name] >= n {
			u.cursor[name] = max(n-1, 0)
		}
	}
	if err := errors.Join(errs...); err != nil {
		u.log.Warn("load panes", "error", err)
		u.status = err.Error()
	}
}

func (u *UI) paneLen(name string) int {
	switch name {
	case viewTasks:
		return len(u.data.tasks)
	case viewPlans:
		return len(u.data.plans)
	case viewDoubts:
		return len(u.data.doubts)
	case viewProgress:
		return len(u.data.progress)
	case viewMoods:
		return len(u.data.moods)
	case viewReminders:
		return len(u.data.reminders)
	case viewHistory:
		return len(u.data.history)
	case viewSyllabus:
		return len(u.data.files)
	case viewCalendar:
		return len(u.data.month.Days)
	default:
		return 0
	}
}

// selectable maps a pane to the board whose selection it drives.
func (u *UI) selectable(name string) interface {
	ToggleSelection(*session.Session, int) (bool, error)
	IsSelected(*session.Session, int) bool
	DeleteSelected(context.Context, *session.Session) (int, error)
} {
	switch name {
	case viewTasks:
		return u.tasks
	case viewPlans:
		return u.plans
	case viewDoubts:
		return u.doubts
	case viewProgress:
		return u.progress
	case viewReminders:
		return u.reminders
	default:
		return nil
	}
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	if u.sess == nil {
		fmt.Fprint(view, "Student Guide | not logged in")
		return
	}
	fmt.Fprintf(view, "Student Guide | %s (%s) | %s %s | %s", u.user.Name, u.user.ID, u.user.Course, u.user.Section, u.now().Format("Mon 2006-01-02 15:04"))
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)
	view.SetCursor(0, 0)

	if u.sess == nil {
		fmt.Fprintln(view, "tab next field | enter submit | ctrl+r login/register | ctrl+c quit")
	} else {
		fmt.Fprintln(view, "a add | space select | d delete | x complete/advance/resolve/dismiss | u revert | t toggle | e export | i import")
		fmt.Fprintln(view, "s start | p pause | z reset | c my timer | h/l month | P profile | L logout | r reload | ? help | q quit")
	}
	if u.status != "" {
		fmt.Fprint(view, u.status)
	}
}

func (u *UI) renderPane(view *gocui.View, name string) {
	view.Clear()
	focused := u.focus == name
	switch name {
	case viewTimer:
		u.renderTimer(view)
		return
	case viewCalendar:
		fmt.Fprint(view, strings.Join(calendarLines(u.data.month, u.cursor[viewCalendar]+1), "\n"))
		return
	}

	lines := u.paneLines(name)
	if len(lines) == 0 {
		fmt.Fprint(view, emptyText(name))
		return
	}
	for i, line := range lines {
		prefix := " "
		if i == u.cursor[name] {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, line)
	}
	if focused {
		view.SetCursor(0, min(u.cursor[name], len(lines)-1))
	}
}

func (u *UI) paneLines(name string) []string {
	var lines []string
	mark := func(i int) string {
		if s := u.selectable(name); s != nil {
			return selectionMark(s.IsSelected(u.sess, i)) + " "
		}
		return ""
	}
	switch name {
	case viewTasks:
		for i, task := range u.data.tasks {
			lines = append(lines, mark(i)+formatTask(task))
		}
	case viewPlans:
		for i, plan := range u.data.plans {
			lines = append(lines, mark(i)+formatPlan(plan))
		}
	case viewDoubts:
		for i, doubt := range u.data.doubts {
			lines = append(lines, mark(i)+formatDoubt(doubt))
		}
	case viewProgress:
		for i, entry := range u.data.progress {
			lines = append(lines, mark(i)+formatProgress(entry))
		}
	case viewMoods:
		for _, entry := range u.data.moods {
			lines = append(lines, formatMood(entry))
		}
	case viewReminders:
		for i, reminder := range u.data.reminders {
			lines = append(lines, mark(i)+formatReminder(reminder))
		}
	case viewHistory:
		for _, entry := range u.data.history {
			lines = append(lines, formatTimerEntry(entry))
		}
	case viewSyllabus:
		lines = append(lines, u.data.files...)
	}
	return lines
}

func emptyText(name string) string {
	switch name {
	case viewMoods:
		return "No mood entries yet."
	case viewHistory:
		return "No timer sessions logged yet."
	case viewSyllabus:
		return "No syllabus files uploaded yet."
	default:
		return "Nothing here yet. Press a to add."
	}
}

func (u *UI) renderTimer(view *gocui.View) {
	if u.timer == nil {
		return
	}
	snap := u.timer.Snapshot()
	running := "paused"
	if snap.Running {
		running = "running"
	} else if snap.State == pomodoro.StateStopped {
		running = "ready"
	}
	fmt.Fprintf(view, "  %s\n", pomodoro.Format(snap.Remaining))
	fmt.Fprintf(view, "  %s | %s", snap.State, running)
}

func (u *UI) showForm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := min(len(u.form.fields)+4, max(8, maxY-2))
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	view.Title = formTitle(u.form.kind)
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) showInfo(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	lines := strings.Count(u.info, "\n") + 1
	width := max(60, maxX/2)
	height := min(lines+1, max(maxY-2, 3))
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewInfo, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = u.infoTitle
	view.Wrap = true
	view.Clear()
	fmt.Fprint(view, u.info)
	_, _ = gui.SetCurrentView(viewInfo)
	return nil
}

func (u *UI) showPopup(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(40, maxX/3)
	height := 5
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewPopup, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = "Reminder!"
	view.Wrap = true
	view.FrameColor = gocui.ColorRed
	view.TitleColor = gocui.ColorRed
	view.Clear()
	n := u.popups[0]
	fmt.Fprintf(view, "%s\nDue %s\n\nenter/esc dismiss", n.Reminder.Message, n.Due.Format(model.DisplayLayout))
	_, _ = gui.SetViewOnTop(viewPopup)
	_, _ = gui.SetCurrentView(viewPopup)
	return nil
}

func (u *UI) onListClick(gui *gocui.Gui, viewName string, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewName)
	if err != nil {
		return nil
	}
	_, y0, _, _ := view.Dimensions()
	_, oy := view.Origin()
	row := max(opts.Y-y0-1+oy, 0)
	if viewName != viewTimer && viewName != viewCalendar {
		u.cursor[viewName] = min(row, max(u.paneLen(viewName)-1, 0))
	}
	return u.setFocus(gui, viewName)
}

func (u *UI) switchFocus(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	next := panes[0]
	for i, name := range panes {
		if name == u.focus {
			next = panes[(i+1)%len(panes)]
			break
		}
	}
	return u.setFocus(gui, next)
}

func (u *UI) setFocus(gui *gocui.Gui, name string) error {
	if u.inputActive() {
		return nil
	}
	u.focus = name
	if gui != nil {
		_, _ = gui.SetCurrentView(name)
	}
	return nil
}

func (u *UI) moveDown(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.cursor[u.focus] < u.paneLen(u.focus)-1 {
		u.cursor[u.focus]++
	}
	return nil
}

func (u *UI) moveUp(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.cursor[u.focus] > 0 {
		u.cursor[u.focus]--
	}
	return nil
}

func (u *UI) reload(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.status = ""
	u.load()
	return nil
}

func (u *UI) toggleSelection(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	s := u.selectable(u.focus)
	if s == nil {
		return nil
	}
	if _, err := s.ToggleSelection(u.sess, u.cursor[u.focus]); err != nil {
		u.status = err.Error()
	}
	return nil
}

func (u *UI) deleteSelected(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	s := u.selectable(u.focus)
	if s == nil {
		return nil
	}
	removed, err := s.DeleteSelected(context.Background(), u.sess)
	u.report(err, fmt.Sprintf("Deleted %d item(s)", removed))
	u.load()
	return nil
}

// primaryAction completes tasks, advances plans, resolves doubts or
// dismisses the reminder under the cursor, depending on focus.
func (u *UI) primaryAction(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	ctx := context.Background()
	switch u.focus {
	case viewTasks:
		n, err := u.tasks.MarkCompleted(ctx, u.sess)
		u.report(err, fmt.Sprintf("Marked %d task(s) completed", n))
	case viewPlans:
		n, err := u.plans.Advance(ctx, u.sess)
		u.report(err, fmt.Sprintf("Advanced %d plan(s)", n))
	case viewDoubts:
		n, err := u.doubts.Resolve(ctx, u.sess)
		u.report(err, fmt.Sprintf("Resolved %d doubt(s)", n))
	case viewReminders:
		index := u.cursor[viewReminders]
		if index >= len(u.data.reminders) {
			return nil
		}
		u.report(u.reminders.Dismiss(ctx, u.sess, u.data.reminders[index].ID), "Reminder dismissed")
	default:
		return nil
	}
	u.load()
	return nil
}

func (u *UI) revertTasks(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewTasks {
		return nil
	}
	n, err := u.tasks.RevertToPending(context.Background(), u.sess)
	u.report(err, fmt.Sprintf("Reverted %d task(s) to pending", n))
	u.load()
	return nil
}

func (u *UI) toggleTaskStatus(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewTasks || len(u.data.tasks) == 0 {
		return nil
	}
	status, err := u.tasks.ToggleStatus(context.Background(), u.sess, u.cursor[viewTasks])
	u.report(err, fmt.Sprintf("Task is now %s", status))
	u.load()
	return nil
}

func (u *UI) exportDoubts(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewDoubts {
		return nil
	}
	paths, err := u.doubts.ExportSelected(u.sess, u.deps.Config.DoubtDir)
	u.report(err, fmt.Sprintf("Exported %d doubt(s) to %s", len(paths), u.deps.Config.DoubtDir))
	return nil
}

func (u *UI) importDoubt(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewDoubts {
		return nil
	}
	u.openForm(formImportDoubt)
	return nil
}

func (u *UI) openAddForm(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	kinds := map[string]formKind{
		viewTasks:     formTask,
		viewPlans:     formPlan,
		viewDoubts:    formDoubt,
		viewProgress:  formProgress,
		viewMoods:     formMood,
		viewReminders: formReminder,
		viewSyllabus:  formUpload,
		viewTimer:     formCustomTimer,
	}
	if kind, ok := kinds[u.focus]; ok {
		u.openForm(kind)
	}
	return nil
}

// openItem shows day details on the calendar and opens syllabus files.
func (u *UI) openItem(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	switch u.focus {
	case viewCalendar:
		u.showInfoText("Day Details", dayDetails(u.data.month, u.cursor[viewCalendar]+1))
	case viewSyllabus:
		index := u.cursor[viewSyllabus]
		if index < len(u.data.files) {
			u.report(u.deps.Syllabus.Open(u.data.files[index]), "Opened "+u.data.files[index])
		}
	}
	return nil
}

func (u *UI) startTimer(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewTimer {
		return nil
	}
	u.report(u.timer.Start(), "")
	return nil
}

func (u *UI) pauseTimer(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewTimer {
		return nil
	}
	u.timer.Pause()
	return nil
}

func (u *UI) resetTimer(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewTimer {
		return nil
	}
	u.timer.Reset()
	return nil
}

func (u *UI) customTimer(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewTimer {
		return nil
	}
	u.openForm(formCustomTimer)
	return nil
}

func (u *UI) prevMonth(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewCalendar {
		return nil
	}
	u.calYear, u.calMonth = calendar.Prev(u.calYear, u.calMonth)
	u.load()
	return nil
}

func (u *UI) nextMonth(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.focus != viewCalendar {
		return nil
	}
	u.calYear, u.calMonth = calendar.Next(u.calYear, u.calMonth)
	u.load()
	return nil
}

func (u *UI) editProfile(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.sess == nil {
		return nil
	}
	u.openForm(formProfile)
	return nil
}

func (u *UI) logout(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() || u.sess == nil {
		return nil
	}
	u.endSession()
	u.openLogin("")
	u.status = "Logged out"
	return nil
}

func (u *UI) openLogin(username string) {
	u.openForm(formLogin)
	u.form.fields[0].Value = username
	if username != "" {
		u.form.index = 1
	}
}

func (u *UI) openForm(kind formKind) {
	u.form = &formState{kind: kind, fields: buildFormFields(kind, u.user)}
}

func (u *UI) toggleRegister(_ *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}
	switch u.form.kind {
	case formLogin:
		u.openForm(formRegister)
	case formRegister:
		u.openLogin("")
	}
	u.status = ""
	return nil
}

func (u *UI) submitFormNow(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil {
		return nil
	}
	form := u.form
	if err := u.submit(context.Background(), form); err != nil {
		u.status = err.Error()
		return nil
	}
	// Login and register replace the form themselves.
	if u.form == form {
		u.form = nil
	}
	u.closeView(gui, viewForm)
	u.load()
	return nil
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.form == nil || u.sess == nil {
		return nil
	}
	u.form = nil
	u.status = ""
	u.closeView(gui, viewForm)
	return nil
}

func (u *UI) nextFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(_ *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.showInfoText("Help", helpText())
	return nil
}

func (u *UI) showInfoText(title, text string) {
	u.infoTitle = title
	u.info = text
}

func (u *UI) closeInfo(gui *gocui.Gui, _ *gocui.View) error {
	u.info = ""
	u.closeView(gui, viewInfo)
	return nil
}

// onReminder runs on the main loop for every due reminder.
func (u *UI) onReminder(n reminder.Notification) error {
	if u.sess == nil {
		return nil
	}
	u.popups = append(u.popups, n)
	if u.deps.Alert != nil {
		u.deps.Alert.Alert("Reminder: " + n.Reminder.Message)
	}
	return nil
}

func (u *UI) dismissPopup(gui *gocui.Gui, _ *gocui.View) error {
	if len(u.popups) == 0 {
		return nil
	}
	n := u.popups[0]
	u.popups = u.popups[1:]
	if err := u.reminders.Dismiss(context.Background(), u.sess, n.Reminder.ID); err != nil {
		u.status = err.Error()
	}
	if len(u.popups) == 0 {
		u.closeView(gui, viewPopup)
	}
	u.load()
	return nil
}

// onTimerEvent runs on the main loop for every engine event.
func (u *UI) onTimerEvent(ev pomodoro.Event) error {
	if ev.Kind != pomodoro.EventCompleted {
		return nil
	}
	switch ev.Finished {
	case model.TimerWork:
		u.status = "Work session finished! Time for a break."
	case model.TimerBreak:
		u.status = "Break finished! Time to work."
	default:
		u.status = "Your timer is done!"
	}
	u.load()
	return nil
}

func (u *UI) report(err error, success string) {
	switch {
	case err == nil:
		u.status = success
	case errors.Is(err, board.ErrNothingSelected):
		u.status = "Nothing selected. Use space to select items."
	default:
		u.status = err.Error()
	}
}

func (u *UI) closeView(gui *gocui.Gui, name string) {
	if gui == nil {
		return
	}
	_ = gui.DeleteView(name)
	if u.sess != nil {
		_, _ = gui.SetCurrentView(u.focus)
	}
}

func (u *UI) inputActive() bool {
	return u.sess == nil || u.form != nil || u.info != "" || len(u.popups) > 0
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	return gocui.ErrQuit
}

func (u *UI) forceQuit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}

func helpText() string {
	return strings.Join([]string{
		"Navigation:",
		"  Tab cycle panes | 1-9, 0 jump to pane",
		"  j/k or arrows move | space select | mouse click to focus",
		"",
		"Lists:",
		"  a add (tasks, plans, doubts, progress, moods, reminders, syllabus)",
		"  d delete selected",
		"  x tasks: complete | plans: advance | doubts: resolve | reminders: dismiss",
		"  u revert tasks to pending | t toggle task under cursor",
		"  e export selected doubts | i import a doubt file",
		"",
		"Pomodoro (pane 7):",
		"  s start/resume | p pause | z reset | c or a my timer",
		"",
		"Calendar (pane 8):",
		"  h/l previous/next month | j/k move day | enter day details",
		"",
		"Syllabus (pane 0):",
		"  a upload | enter open",
		"",
		"Other:",
		"  P edit profile | L logout | r reload | ? help | esc close | q quit",
	}, "\n")
}

func applyViewStyle(view *gocui.View, focused bool, highlight bool) {
	view.Frame = true
	view.Highlight = focused && highlight
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
		view.TitleColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
		view.TitleColor = gocui.ColorDefault
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
