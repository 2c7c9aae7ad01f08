package dashboard

import (
	"fmt"
	"strings"

	"github.com/lazyllms/lazyllms/internal/ollama"
	"github.com/lazyllms/lazyllms/internal/poll"
)

// sparklineWidth is the number of characters given to each resource sparkline.
const sparklineWidth = 30

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderModelTable())
	b.WriteString("\n")

	b.WriteString(m.renderResources())

	if banner := m.renderStatusLine(); banner != "" {
		b.WriteString("\n")
		b.WriteString(banner)
	}

	if m.showLog {
		b.WriteString("\n")
		b.WriteString(m.renderLogPanel())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title bar with summary stats.
func (m Model) renderHeader() string {
	total := m.modelCount()
	running := m.RunningCount()

	var updateText string
	switch secs := m.SecondsSinceUpdate(); {
	case m.snapshot == nil:
		updateText = "waiting for first poll"
	case secs == 0:
		updateText = "just now"
	case secs == 1:
		updateText = "1s ago"
	default:
		updateText = fmt.Sprintf("%ds ago", secs)
	}

	title := TitleStyle.Render("lazyllms")
	stats := LabelStyle.Render(fmt.Sprintf(" | %d models | %d running | updated %s", total, running, updateText))

	return HeaderStyle.Render(title + stats)
}

// renderModelTable renders one row per model in server order.
func (m Model) renderModelTable() string {
	width := m.paneWidth()

	if m.snapshot == nil {
		return SectionHeader("Models", "…", width) + "\n" +
			SectionContentLine(MutedStyle.Render("polling the serving endpoint"), width) + "\n" +
			SectionFooter(width)
	}

	countLabel := fmt.Sprintf("%d", len(m.snapshot.Models))
	var lines []string
	lines = append(lines, SectionHeader("Models", countLabel, width))

	switch {
	case m.snapshot.ModelsStale():
		lines = append(lines, SectionContentLine(StalePaneStyle.Render("model list stale, endpoint not responding"), width))
	case len(m.snapshot.Models) == 0:
		lines = append(lines, SectionContentLine(MutedStyle.Render("no models installed"), width))
	default:
		for i, mdl := range m.snapshot.Models {
			lines = append(lines, SectionContentLine(m.renderModelRow(mdl, i == m.selected), width))
		}
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderModelRow renders one model line: indicator, name, size, family
// tag, and the load state with VRAM when running.
func (m Model) renderModelRow(mdl ollama.Model, selected bool) string {
	var indicator string
	switch mdl.Status {
	case ollama.StatusRunning:
		indicator = StatusRunningStyle.Render(IndicatorRunning)
	case ollama.StatusStopped:
		indicator = StatusStoppedStyle.Render(IndicatorStopped)
	default:
		indicator = StatusUnknownStyle.Render(IndicatorUnknown)
	}

	nameStyle := ValueStyle
	if selected {
		nameStyle = SelectedRowStyle
	}
	name := nameStyle.Render(fmt.Sprintf("%-28s", mdl.Name))

	details := fmt.Sprintf("%8s", formatBytes(mdl.SizeBytes))
	if tag := modelTag(mdl); tag != "" {
		details += "  " + tag
	}

	var state string
	switch mdl.Status {
	case ollama.StatusRunning:
		state = StatusRunningStyle.Render("running")
		if mdl.VRAMBytes != nil {
			state += MutedStyle.Render(" " + formatBytes(*mdl.VRAMBytes) + " vram")
		}
	case ollama.StatusStopped:
		state = MutedStyle.Render("stopped")
	default:
		state = StatusUnknownStyle.Render("unknown")
	}

	cursor := " "
	if selected {
		cursor = TitleStyle.Render("❯")
	}

	return cursor + " " + indicator + " " + name + LabelStyle.Render(details) + "  " + state
}

// modelTag combines the parameter size and quantization into a short label.
func modelTag(mdl ollama.Model) string {
	switch {
	case mdl.ParameterSize != "" && mdl.Quantization != "":
		return mdl.ParameterSize + " " + mdl.Quantization
	case mdl.ParameterSize != "":
		return mdl.ParameterSize
	case mdl.Quantization != "":
		return mdl.Quantization
	default:
		return mdl.Family
	}
}

// renderResources renders the host resource section with sparklines.
func (m Model) renderResources() string {
	width := m.paneWidth()

	var lines []string
	lines = append(lines, SectionHeader("Resources", "host", width))

	if m.snapshot == nil || m.snapshot.ResourcesStale() {
		lines = append(lines, SectionContentLine(StalePaneStyle.Render("resource metrics stale"), width))
		lines = append(lines, SectionFooter(width))
		return strings.Join(lines, "\n")
	}

	res := m.snapshot.Resources

	cpuLine := m.resourceLine("CPU", res.CPUPercent, m.history.CPU(sparklineWidth),
		fmt.Sprintf("%.1f%%", res.CPUPercent))
	lines = append(lines, SectionContentLine(cpuLine, width))

	ramPercent := 0.0
	if res.MemoryTotalBytes > 0 {
		ramPercent = float64(res.MemoryUsedBytes) / float64(res.MemoryTotalBytes) * 100
	}
	ramLine := m.resourceLine("RAM", ramPercent, m.history.RAM(sparklineWidth),
		fmt.Sprintf("%s / %s", formatBytes(int64(res.MemoryUsedBytes)), formatBytes(int64(res.MemoryTotalBytes))))
	lines = append(lines, SectionContentLine(ramLine, width))

	if res.GPU != nil {
		gpuLine := m.resourceLine("GPU", res.GPU.Percent, m.history.GPU(sparklineWidth),
			fmt.Sprintf("%.0f%% · %s / %s · %d°C", res.GPU.Percent,
				formatBytes(res.GPU.VRAMUsedBytes), formatBytes(res.GPU.VRAMTotalBytes),
				res.GPU.Temperature))
		lines = append(lines, SectionContentLine(gpuLine, width))
	}

	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// resourceLine renders one labelled metric with a bar, sparkline, and value.
func (m Model) resourceLine(label string, percent float64, history []float64, value string) string {
	bar := ProgressBar(12, percent)
	spark := RenderSparkline(history, sparklineWidth)
	return LabelStyle.Render(fmt.Sprintf("%-4s", label)) + bar + " " + spark + " " + ValueStyle.Render(value)
}

// renderStatusLine renders the transient command notice and any
// collector error banner.
func (m Model) renderStatusLine() string {
	var parts []string

	if m.snapshot != nil {
		for _, ce := range m.snapshot.CollectorErrors {
			parts = append(parts, ErrorBannerStyle.Render("✗ "+collectorErrorText(ce)))
		}
	}

	if m.notice != "" {
		if m.noticeErr {
			parts = append(parts, ErrorBannerStyle.Render("✗ "+m.notice))
		} else {
			parts = append(parts, NoticeStyle.Render("• "+m.notice))
		}
	}

	return strings.Join(parts, "\n")
}

// collectorErrorText renders a collector error for the banner.
func collectorErrorText(ce poll.CollectorError) string {
	switch ce.Source {
	case poll.SourceModels:
		return "endpoint " + strings.ToLower(ce.Kind) + ": " + ce.Message
	case poll.SourceResources:
		return "resource collection failed: " + ce.Message
	default:
		return ce.Message
	}
}

// renderLogPanel renders the scrollable activity log.
func (m Model) renderLogPanel() string {
	width := m.paneWidth()
	header := SectionHeader("Activity", fmt.Sprintf("%d", m.events.Len()), width)
	return header + "\n" + m.logViewport.View() + "\n" + SectionFooter(width)
}

// renderEventLines renders log entries for the viewport, leveled colors
// per line.
func renderEventLines(events *EventLog) string {
	entries := events.Entries()
	if len(entries) == 0 {
		return MutedStyle.Render("no activity yet")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), e.Level, e.Message)
		switch e.Level {
		case EventError:
			lines = append(lines, ErrorBannerStyle.Render(line))
		case EventWarn:
			lines = append(lines, StatusUnknownStyle.Render(line))
		default:
			lines = append(lines, LabelStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

// renderFooter renders the keyboard hint line.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r refresh",
		"↑↓ select",
		"s start",
		"x stop",
		"l log",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// paneWidth returns the width used for bordered sections.
func (m Model) paneWidth() int {
	if m.width <= 0 {
		return 80
	}
	if m.width > 120 {
		return 120
	}
	return m.width
}

// formatBytes formats a byte count as a human-readable string.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), units[exp])
}
