package dashboard

import (
	"github.com/lazyllms/lazyllms/internal/sysinfo"
)

// DefaultHistorySize is the default number of samples retained per metric.
const DefaultHistorySize = 60

// History stores recent resource percentages in ring buffers for
// sparkline rendering. It is only touched from the Bubble Tea update
// loop, so it needs no locking.
type History struct {
	size int
	cpu  *ringBuffer
	ram  *ringBuffer
	gpu  *ringBuffer // nil until the first GPU sample arrives
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history tracker with the specified buffer size.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size: size,
		cpu:  newRingBuffer(size),
		ram:  newRingBuffer(size),
	}
}

// Push records one resource sample. Nil metrics (a stale cycle) are
// skipped so the sparkline shows only real samples.
func (h *History) Push(metrics *sysinfo.Metrics) {
	if metrics == nil {
		return
	}

	h.cpu.push(metrics.CPUPercent)

	if metrics.MemoryTotalBytes > 0 {
		h.ram.push(float64(metrics.MemoryUsedBytes) / float64(metrics.MemoryTotalBytes) * 100)
	}

	if metrics.GPU != nil {
		if h.gpu == nil {
			h.gpu = newRingBuffer(h.size)
		}
		h.gpu.push(metrics.GPU.Percent)
	}
}

// CPU returns the last count CPU percentages, oldest first.
func (h *History) CPU(count int) []float64 {
	return h.cpu.getLast(count)
}

// RAM returns the last count memory percentages, oldest first.
func (h *History) RAM(count int) []float64 {
	return h.ram.getLast(count)
}

// GPU returns the last count GPU percentages, or nil if no GPU sample
// has ever been recorded.
func (h *History) GPU(count int) []float64 {
	if h.gpu == nil {
		return nil
	}
	return h.gpu.getLast(count)
}

// Count returns the number of CPU samples stored.
func (h *History) Count() int {
	return h.cpu.count
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head points at the next write position, so the newest value is
	// at head-1 and the window of count values ends there
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}

	return result
}
