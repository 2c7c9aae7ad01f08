package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazyllms/lazyllms/internal/poll"
)

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyRefresh     = "r"
	KeyStart       = "s"
	KeyStop        = "x"
	KeyToggleLog   = "l"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
	KeySelectFirst = "home"
	KeySelectLast  = "end"
	KeyClose       = "esc"
	KeyToggleHelp  = "?"
)

// HandleKeyMsg processes keyboard input. Returns true if the key was
// handled, along with any command to run.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// Help toggle takes priority
	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	// If help is showing, Esc closes it
	if m.showHelp && key == KeyClose {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		m.events.Add(EventInfo, "manual refresh")
		m.poller.Refresh()
		return true, nil

	case KeyToggleLog:
		m.showLog = !m.showLog
		if m.showLog {
			m.syncLogViewport()
		}
		return true, nil

	case KeyStart:
		if name := m.SelectedModel(); name != "" {
			return true, m.commandCmd(poll.ActionStart, name)
		}
		return true, nil

	case KeyStop:
		if name := m.SelectedModel(); name != "" {
			return true, m.commandCmd(poll.ActionStop, name)
		}
		return true, nil

	case KeySelectPrev, KeySelectPrevK:
		if m.selected > 0 {
			m.selected--
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if m.selected < m.modelCount()-1 {
			m.selected++
		}
		return true, nil

	case KeySelectFirst:
		if m.modelCount() > 0 {
			m.selected = 0
		}
		return true, nil

	case KeySelectLast:
		if n := m.modelCount(); n > 0 {
			m.selected = n - 1
		}
		return true, nil

	case KeyClose:
		if m.showLog {
			m.showLog = false
		}
		return true, nil
	}

	// Let the viewport handle scrolling keys when the log panel is open
	if m.showLog {
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return true, cmd
	}

	return false, nil
}
