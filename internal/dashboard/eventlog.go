package dashboard

import (
	"fmt"
	"time"
)

// DefaultEventLogSize is the default number of activity entries retained.
const DefaultEventLogSize = 200

// EventLevel classifies an activity log entry.
type EventLevel int

const (
	EventInfo EventLevel = iota
	EventWarn
	EventError
)

// String returns a short label for the level.
func (l EventLevel) String() string {
	switch l {
	case EventWarn:
		return "WARN"
	case EventError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Event is one entry in the activity log.
type Event struct {
	Time    time.Time
	Level   EventLevel
	Message string
}

// EventLog is a bounded in-memory activity log. The oldest entries are
// dropped once the capacity is reached. Like History, it is only
// touched from the update loop.
type EventLog struct {
	entries []Event
	max     int
}

// NewEventLog creates an event log with the given capacity.
func NewEventLog(max int) *EventLog {
	if max <= 0 {
		max = DefaultEventLogSize
	}
	return &EventLog{max: max}
}

// Add appends a formatted entry, evicting the oldest if full.
func (l *EventLog) Add(level EventLevel, format string, args ...interface{}) {
	l.entries = append(l.entries, Event{
		Time:    time.Now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}

// Entries returns all retained entries, oldest first.
func (l *EventLog) Entries() []Event {
	return l.entries
}

// Len returns the number of retained entries.
func (l *EventLog) Len() int {
	return len(l.entries)
}

// Lines renders each entry as "HH:MM:SS LEVEL message", oldest first.
func (l *EventLog) Lines() []string {
	lines := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		lines = append(lines, fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), e.Level, e.Message))
	}
	return lines
}
