package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazyllms/lazyllms/internal/poll"
)

// Poller is the scheduler surface the dashboard consumes: published
// snapshots and the ability to request an out-of-band refresh.
type Poller interface {
	Updates() <-chan *poll.Snapshot
	Latest() *poll.Snapshot
	Refresh()
}

// Commander executes model lifecycle actions.
type Commander interface {
	Execute(ctx context.Context, action poll.Action, model string) error
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	poller    Poller
	commander Commander

	snapshot *poll.Snapshot
	selected int
	history  *History
	events   *EventLog

	width  int
	height int

	showLog  bool
	showHelp bool
	quitting bool

	// Most recent command outcome shown in the status line
	notice     string
	noticeErr  bool
	noticeTime time.Time

	logViewport   viewport.Model
	viewportReady bool
}

// uiTickMsg redraws the "updated Ns ago" indicator. It never triggers
// collection; the scheduler owns the refresh cadence.
type uiTickMsg time.Time

// snapshotMsg carries a freshly published snapshot.
type snapshotMsg *poll.Snapshot

// commandResultMsg carries the outcome of a lifecycle action.
type commandResultMsg struct {
	action poll.Action
	model  string
	err    error
}

const uiTickInterval = time.Second

// noticeTTL is how long a command outcome stays in the status line.
const noticeTTL = 5 * time.Second

// Options configure the dashboard model.
type Options struct {
	HistorySize int  // sparkline samples to retain (0 uses the default)
	ShowLog     bool // open with the activity log panel visible
}

// NewModel creates a dashboard model wired to the given poller and
// commander.
func NewModel(poller Poller, commander Commander, opts Options) Model {
	m := Model{
		poller:    poller,
		commander: commander,
		history:   NewHistory(opts.HistorySize),
		events:    NewEventLog(DefaultEventLogSize),
		showLog:   opts.ShowLog,
	}

	// The scheduler may have published before the TUI attached
	if snap := poller.Latest(); snap != nil {
		m.applySnapshot(snap)
	}

	return m
}

// Init subscribes to snapshot publications and starts the UI tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForSnapshot(), m.uiTickCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLogViewport()

	case snapshotMsg:
		if msg != nil {
			m.applySnapshot(msg)
		}
		// Re-arm: keep receiving for as long as the program runs
		return m, m.waitForSnapshot()

	case commandResultMsg:
		m.applyCommandResult(msg)

	case uiTickMsg:
		if m.notice != "" && time.Since(m.noticeTime) > noticeTTL {
			m.notice = ""
		}
		return m, m.uiTickCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

// waitForSnapshot blocks on the scheduler's updates channel and
// delivers the next snapshot as a message.
func (m Model) waitForSnapshot() tea.Cmd {
	updates := m.poller.Updates()
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}

// uiTickCmd schedules the next cosmetic redraw.
func (m Model) uiTickCmd() tea.Cmd {
	return tea.Tick(uiTickInterval, func(t time.Time) tea.Msg {
		return uiTickMsg(t)
	})
}

// commandCmd runs a lifecycle action off the update loop.
func (m Model) commandCmd(action poll.Action, model string) tea.Cmd {
	commander := m.commander
	return func() tea.Msg {
		err := commander.Execute(context.Background(), action, model)
		return commandResultMsg{action: action, model: model, err: err}
	}
}

// applySnapshot replaces the current snapshot wholesale and records
// collector failures in the activity log.
func (m *Model) applySnapshot(snap *poll.Snapshot) {
	// Keep the same model selected across reorderings
	selectedName := m.SelectedModel()

	prev := m.snapshot
	m.snapshot = snap
	m.history.Push(snap.Resources)

	for _, ce := range snap.CollectorErrors {
		// Only log state transitions, not every failing cycle
		if prev == nil || !hasSameError(prev, ce) {
			m.events.Add(EventWarn, "%s: %s (%s)", ce.Source, ce.Message, ce.Kind)
		}
	}
	if prev != nil && len(prev.CollectorErrors) > 0 && len(snap.CollectorErrors) == 0 {
		m.events.Add(EventInfo, "collectors recovered")
	}

	if selectedName != "" {
		for i, mdl := range snap.Models {
			if mdl.Name == selectedName {
				m.selected = i
				break
			}
		}
	}
	if m.selected >= len(snap.Models) {
		m.selected = len(snap.Models) - 1
	}
	if m.selected < 0 && len(snap.Models) > 0 {
		m.selected = 0
	}

	if m.showLog {
		m.syncLogViewport()
	}
}

// applyCommandResult records the outcome and surfaces it in the status line.
func (m *Model) applyCommandResult(msg commandResultMsg) {
	m.noticeTime = time.Now()
	if msg.err != nil {
		m.notice = msg.action.String() + " " + msg.model + " failed: " + msg.err.Error()
		m.noticeErr = true
		m.events.Add(EventError, "%s %s failed: %v", msg.action, msg.model, msg.err)
	} else {
		m.notice = msg.action.String() + " " + msg.model + " requested"
		m.noticeErr = false
		m.events.Add(EventInfo, "%s %s succeeded", msg.action, msg.model)
	}
	if m.showLog {
		m.syncLogViewport()
	}
}

// hasSameError reports whether snap already carries an identical
// collector error entry.
func hasSameError(snap *poll.Snapshot, ce poll.CollectorError) bool {
	for _, prev := range snap.CollectorErrors {
		if prev == ce {
			return true
		}
	}
	return false
}

// SelectedModel returns the name of the currently selected model, or
// "" if the list is empty.
func (m Model) SelectedModel() string {
	if m.snapshot == nil {
		return ""
	}
	if m.selected >= 0 && m.selected < len(m.snapshot.Models) {
		return m.snapshot.Models[m.selected].Name
	}
	return ""
}

// RunningCount returns how many models are currently loaded.
func (m Model) RunningCount() int {
	if m.snapshot == nil {
		return 0
	}
	return m.snapshot.RunningCount()
}

// SecondsSinceUpdate returns how many seconds have passed since the
// last snapshot.
func (m Model) SecondsSinceUpdate() int {
	if m.snapshot == nil {
		return 0
	}
	return int(time.Since(m.snapshot.TakenAt).Seconds())
}

func (m Model) modelCount() int {
	if m.snapshot == nil {
		return 0
	}
	return len(m.snapshot.Models)
}

// resizeLogViewport sizes the log panel to the bottom third of the
// terminal.
func (m *Model) resizeLogViewport() {
	height := m.height / 3
	if height < 3 {
		height = 3
	}
	width := m.width
	if width < 10 {
		width = 10
	}

	if !m.viewportReady {
		m.logViewport = viewport.New(width, height)
		m.viewportReady = true
	} else {
		m.logViewport.Width = width
		m.logViewport.Height = height
	}
	m.syncLogViewport()
}

// syncLogViewport refreshes the viewport content and pins it to the
// newest entry.
func (m *Model) syncLogViewport() {
	if !m.viewportReady {
		m.resizeLogViewport()
		return
	}
	m.logViewport.SetContent(renderEventLines(m.events))
	m.logViewport.GotoBottom()
}
