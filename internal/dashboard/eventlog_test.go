package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLogAdd(t *testing.T) {
	l := NewEventLog(10)
	l.Add(EventInfo, "start %s succeeded", "llama3:8b")

	require.Equal(t, 1, l.Len())
	assert.Equal(t, "start llama3:8b succeeded", l.Entries()[0].Message)
	assert.Equal(t, EventInfo, l.Entries()[0].Level)
	assert.False(t, l.Entries()[0].Time.IsZero())
}

func TestEventLogEviction(t *testing.T) {
	l := NewEventLog(3)
	for i := 0; i < 5; i++ {
		l.Add(EventInfo, "event %d", i)
	}

	require.Equal(t, 3, l.Len())
	assert.Equal(t, "event 2", l.Entries()[0].Message)
	assert.Equal(t, "event 4", l.Entries()[2].Message)
}

func TestEventLogDefaultCapacity(t *testing.T) {
	l := NewEventLog(0)
	assert.Equal(t, DefaultEventLogSize, l.max)
}

func TestEventLogLines(t *testing.T) {
	l := NewEventLog(10)
	l.Add(EventWarn, "MODEL_CLIENT: connection refused (UNAVAILABLE)")

	lines := l.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "WARN")
	assert.Contains(t, lines[0], "connection refused")
}

func TestEventLevelString(t *testing.T) {
	assert.Equal(t, "INFO", EventInfo.String())
	assert.Equal(t, "WARN", EventWarn.String())
	assert.Equal(t, "ERROR", EventError.String())
}
