package dashboard

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lazyllms/lazyllms/internal/ollama"
	"github.com/lazyllms/lazyllms/internal/poll"
	"github.com/lazyllms/lazyllms/internal/sysinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func renderAt(t *testing.T, m Model, width, height int) string {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return stripANSI(updated.(Model).View())
}

func TestViewWaitingForFirstPoll(t *testing.T) {
	m := NewModel(newFakePoller(), &fakeCommander{}, Options{})

	out := renderAt(t, m, 100, 40)
	assert.Contains(t, out, "waiting for first poll")
	assert.Contains(t, out, "polling the serving endpoint")
}

func TestViewRendersModels(t *testing.T) {
	snap := testSnapshot("llama3:8b", "mistral:7b")
	snap.Models[0].Status = ollama.StatusRunning
	snap.Models[0].SizeBytes = 4_700_000_000
	snap.Models[0].VRAMBytes = int64Ptr(4_200_000_000)
	snap.Models[0].ParameterSize = "8B"
	snap.Models[0].Quantization = "Q4_0"

	m := NewModel(newFakePoller(), &fakeCommander{}, Options{})
	updated, _ := m.Update(snapshotMsg(snap))
	m = updated.(Model)

	out := renderAt(t, m, 100, 40)

	assert.Contains(t, out, "llama3:8b")
	assert.Contains(t, out, "mistral:7b")
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "stopped")
	assert.Contains(t, out, "8B Q4_0")
	assert.Contains(t, out, "vram")
	assert.Contains(t, out, "1 running")
}

func TestViewRendersResources(t *testing.T) {
	m := NewModel(newFakePoller(), &fakeCommander{}, Options{})
	updated, _ := m.Update(snapshotMsg(testSnapshot("llama3:8b")))
	m = updated.(Model)

	out := renderAt(t, m, 100, 40)

	assert.Contains(t, out, "CPU")
	assert.Contains(t, out, "12.5%")
	assert.Contains(t, out, "RAM")
	assert.Contains(t, out, "7.5 GB / 14.9 GB")
	// No GPU sample: the GPU row is absent entirely
	assert.NotContains(t, out, "GPU")
}

func TestViewRendersGPUWhenPresent(t *testing.T) {
	snap := testSnapshot("llama3:8b")
	snap.Resources.GPU = &sysinfo.GPUMetrics{
		Name:           "RTX 4090",
		Percent:        61,
		VRAMUsedBytes:  8_000_000_000,
		VRAMTotalBytes: 24_000_000_000,
		Temperature:    66,
	}

	m := NewModel(newFakePoller(), &fakeCommander{}, Options{})
	updated, _ := m.Update(snapshotMsg(snap))
	m = updated.(Model)

	out := renderAt(t, m, 100, 40)

	assert.Contains(t, out, "GPU")
	assert.Contains(t, out, "61%")
	assert.Contains(t, out, "66°C")
}

func TestViewStaleSections(t *testing.T) {
	snap := &poll.Snapshot{
		TakenAt: time.Now(),
		CollectorErrors: []poll.CollectorError{
			{Source: poll.SourceModels, Kind: "TIMEOUT", Message: "deadline exceeded"},
			{Source: poll.SourceResources, Kind: "COLLECT", Message: "cpu sample failed"},
		},
	}

	m := NewModel(newFakePoller(), &fakeCommander{}, Options{})
	updated, _ := m.Update(snapshotMsg(snap))
	m = updated.(Model)

	out := renderAt(t, m, 100, 40)

	assert.Contains(t, out, "model list stale")
	assert.Contains(t, out, "resource metrics stale")
	assert.Contains(t, out, "endpoint timeout: deadline exceeded")
	assert.Contains(t, out, "resource collection failed: cpu sample failed")
}

func TestViewCommandNotice(t *testing.T) {
	m := NewModel(newFakePoller(), &fakeCommander{}, Options{})
	updated, _ := m.Update(snapshotMsg(testSnapshot("llama3:8b")))
	m = updated.(Model)
	updated, _ = m.Update(commandResultMsg{action: poll.ActionStart, model: "llama3:8b"})
	m = updated.(Model)

	out := renderAt(t, m, 100, 40)
	assert.Contains(t, out, "start llama3:8b requested")
}

func TestViewLogPanel(t *testing.T) {
	m := NewModel(newFakePoller(), &fakeCommander{}, Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("l"))
	m = updated.(Model)

	out := stripANSI(m.View())
	assert.Contains(t, out, "Activity")
}

func TestViewHelpOverlay(t *testing.T) {
	m := NewModel(newFakePoller(), &fakeCommander{}, Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("?"))
	m = updated.(Model)

	out := stripANSI(m.View())
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "Start selected model")
}

func TestViewSelectedModelMarked(t *testing.T) {
	m := NewModel(newFakePoller(), &fakeCommander{}, Options{})
	updated, _ := m.Update(snapshotMsg(testSnapshot("llama3:8b", "mistral:7b")))
	m = updated.(Model)

	out := renderAt(t, m, 100, 40)
	require.Contains(t, out, "❯")
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{4_700_000_000, "4.4 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatBytes(tt.bytes))
		})
	}
}
