package dashboard

import (
	"testing"

	"github.com/lazyllms/lazyllms/internal/sysinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMetrics(cpu float64) *sysinfo.Metrics {
	return &sysinfo.Metrics{
		CPUPercent:       cpu,
		MemoryUsedBytes:  4_000_000_000,
		MemoryTotalBytes: 8_000_000_000,
	}
}

func TestNewHistory(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		expected int
	}{
		{"default size", 0, DefaultHistorySize},
		{"negative size", -1, DefaultHistorySize},
		{"custom size", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(tt.size)
			assert.NotNil(t, h)
			assert.Equal(t, tt.expected, h.size)
		})
	}
}

func TestHistoryPush(t *testing.T) {
	h := NewHistory(10)

	h.Push(sampleMetrics(50))
	assert.Equal(t, 1, h.Count())

	// A stale cycle (nil resources) must not record a sample
	h.Push(nil)
	assert.Equal(t, 1, h.Count())
}

func TestHistoryChronologicalOrder(t *testing.T) {
	h := NewHistory(10)
	for i := 0; i < 5; i++ {
		h.Push(sampleMetrics(float64(i * 10)))
	}

	cpu := h.CPU(5)
	require.Len(t, cpu, 5)
	assert.Equal(t, []float64{0, 10, 20, 30, 40}, cpu)

	ram := h.RAM(5)
	require.Len(t, ram, 5)
	assert.InDelta(t, 50.0, ram[0], 0.01)
}

func TestHistoryRingBufferOverflow(t *testing.T) {
	h := NewHistory(5)
	for i := 0; i < 8; i++ {
		h.Push(sampleMetrics(float64(i)))
	}

	assert.Equal(t, 5, h.Count())

	// Oldest three samples were evicted
	cpu := h.CPU(10)
	require.Len(t, cpu, 5)
	assert.Equal(t, []float64{3, 4, 5, 6, 7}, cpu)
}

func TestHistoryGPUAbsent(t *testing.T) {
	h := NewHistory(10)
	h.Push(sampleMetrics(10))

	assert.Nil(t, h.GPU(10))
}

func TestHistoryGPUPresent(t *testing.T) {
	h := NewHistory(10)
	h.Push(sampleMetrics(10))

	withGPU := sampleMetrics(20)
	withGPU.GPU = &sysinfo.GPUMetrics{Name: "RTX 4090", Percent: 75}
	h.Push(withGPU)

	gpu := h.GPU(10)
	require.Len(t, gpu, 1)
	assert.Equal(t, 75.0, gpu[0])
}

func TestHistoryGetLastPartial(t *testing.T) {
	h := NewHistory(10)
	h.Push(sampleMetrics(1))
	h.Push(sampleMetrics(2))

	// Asking for more than stored returns what exists
	assert.Equal(t, []float64{1, 2}, h.CPU(30))
	// Asking for less returns the newest window
	assert.Equal(t, []float64{2}, h.CPU(1))
	assert.Nil(t, h.CPU(0))
}
