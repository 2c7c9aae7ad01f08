package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline renders a single-row sparkline of percentage data
// using block characters, colored by the most recent value. Data is
// resampled to fit width; with less data than width the graph is
// simply shorter (it fills from the left as samples accumulate).
func RenderSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	resampled := data
	if len(data) > width {
		resampled = resample(data, width)
	}

	var b strings.Builder
	for _, val := range resampled {
		normalized := val / 100
		if normalized < 0 {
			normalized = 0
		}
		if normalized > 1 {
			normalized = 1
		}
		idx := int(normalized * float64(len(sparklineBlocks)-1))
		b.WriteRune(sparklineBlocks[idx])
	}

	color := MetricColor(data[len(data)-1])
	return lipgloss.NewStyle().Foreground(color).Render(b.String())
}

// resample compresses data to targetSize points, taking the max of
// each bucket so short spikes stay visible.
func resample(data []float64, targetSize int) []float64 {
	if targetSize <= 0 || len(data) == 0 {
		return nil
	}
	if len(data) <= targetSize {
		return data
	}

	result := make([]float64, targetSize)
	bucketSize := float64(len(data)) / float64(targetSize)
	for i := 0; i < targetSize; i++ {
		start := int(float64(i) * bucketSize)
		end := int(float64(i+1) * bucketSize)
		if end > len(data) {
			end = len(data)
		}
		if start >= end {
			start = end - 1
		}

		maxVal := data[start]
		for j := start + 1; j < end; j++ {
			if data[j] > maxVal {
				maxVal = data[j]
			}
		}
		result[i] = maxVal
	}
	return result
}
