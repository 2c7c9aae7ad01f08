// Package dashboard implements the real-time TUI for local model serving.
//
// The dashboard displays the models known to the serving endpoint with
// their load state and VRAM footprint, alongside host CPU, memory, and
// GPU usage, and lets the user start and stop models from the keyboard.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm
// Architecture (Model-Update-View pattern):
//
//   - Model: Holds dashboard state (current snapshot, selection, panels)
//   - Update: Processes messages (keystrokes, snapshots, command results)
//   - View: Renders the current state to a string for display
//
// # Message Flow
//
// Unlike a tick-driven dashboard, this one is push-driven: the poll
// scheduler owns the refresh cadence and publishes snapshots on a
// channel. The model subscribes with a command that blocks on that
// channel and re-arms itself after every delivery:
//
//  1. waitForSnapshot() receives the next published snapshot
//  2. snapshotMsg arrives, replacing Model.snapshot wholesale
//  3. View() re-renders models, resources, and any collector errors
//  4. waitForSnapshot() is issued again
//
// A one-second uiTick only redraws the "updated Ns ago" indicator; it
// never triggers collection.
//
// # Key Components
//
//	Model    - The Bubble Tea model containing all dashboard state
//	History  - Ring buffers of CPU/RAM/GPU percentages for sparklines
//	EventLog - Bounded in-memory activity log shown in the log panel
//
// # Keyboard Shortcuts
//
// Navigation and control is handled via keybindings defined in
// keybindings.go:
//
//	q, Ctrl+C   - Quit
//	r           - Force refresh
//	j/k, ↑/↓    - Navigate model list
//	s           - Start selected model
//	x           - Stop selected model
//	l           - Toggle activity log panel
//	?           - Toggle help overlay
package dashboard
