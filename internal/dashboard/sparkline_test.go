package dashboard

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestRenderSparklineEmpty(t *testing.T) {
	assert.Equal(t, "", RenderSparkline(nil, 10))
	assert.Equal(t, "", RenderSparkline([]float64{50}, 0))
}

func TestRenderSparklineLevels(t *testing.T) {
	out := stripANSI(RenderSparkline([]float64{0, 50, 100}, 10))

	runes := []rune(out)
	assert.Len(t, runes, 3)
	assert.Equal(t, '▁', runes[0])
	assert.Equal(t, '█', runes[2])
}

func TestRenderSparklineClampsOutOfRange(t *testing.T) {
	out := stripANSI(RenderSparkline([]float64{-10, 150}, 10))

	runes := []rune(out)
	assert.Equal(t, '▁', runes[0])
	assert.Equal(t, '█', runes[1])
}

func TestRenderSparklineFillsFromLeft(t *testing.T) {
	// Fewer samples than width: graph is shorter, not padded
	out := stripANSI(RenderSparkline([]float64{10, 20}, 30))
	assert.Len(t, []rune(out), 2)
}

func TestResamplePreservesPeaks(t *testing.T) {
	data := []float64{10, 10, 95, 10, 10, 10, 10, 10}
	out := resample(data, 4)

	assert.Len(t, out, 4)
	// The spike must survive max-bucket downsampling
	var peak float64
	for _, v := range out {
		if v > peak {
			peak = v
		}
	}
	assert.Equal(t, 95.0, peak)
}

func TestResamplePassthrough(t *testing.T) {
	data := []float64{1, 2, 3}
	assert.Equal(t, data, resample(data, 3))
	assert.Equal(t, data, resample(data, 5))
	assert.Nil(t, resample(nil, 5))
}

func TestMetricColorThresholds(t *testing.T) {
	tests := []struct {
		percent float64
		color   lipgloss.Color
	}{
		{0, ColorHealthy},
		{69.9, ColorHealthy},
		{70, ColorWarning},
		{89.9, ColorWarning},
		{90, ColorCritical},
		{100, ColorCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.color, MetricColor(tt.percent), "percent %.1f", tt.percent)
	}
}
