package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/lazyllms/lazyllms/internal/config"
	"github.com/lazyllms/lazyllms/internal/logger"
	"github.com/lazyllms/lazyllms/internal/ollama"
	"github.com/lazyllms/lazyllms/internal/sysinfo"
)

// listCommand performs one poll cycle and prints the result. The model
// list is authoritative: an unreachable endpoint is a hard failure,
// while resource collection degrades to a warning.
func listCommand(cfg *config.Config, w io.Writer) error {
	log := logger.NewEnvLogger("cli")
	client := ollama.NewClient(cfg.Endpoint, cfg.Timeout, log)
	collector := sysinfo.NewCollector(cfg.GPUTimeout, log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout+cfg.GPUTimeout)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}

	resources, resErr := collector.Sample(ctx)

	printModels(w, models)
	fmt.Fprintln(w)
	if resErr != nil {
		fmt.Fprintf(w, "resource metrics unavailable: %v\n", resErr)
	} else {
		printResources(w, resources)
	}

	return nil
}

func printModels(w io.Writer, models []ollama.Model) {
	out := termenv.NewOutput(w)

	fmt.Fprintf(w, "%-30s %-10s %-14s %s\n", "MODEL", "SIZE", "TAG", "STATUS")
	if len(models) == 0 {
		fmt.Fprintln(w, out.String("no models installed").Faint())
		return
	}

	for _, m := range models {
		tag := m.ParameterSize
		if m.Quantization != "" {
			if tag != "" {
				tag += " "
			}
			tag += m.Quantization
		}
		if tag == "" {
			tag = m.Family
		}

		status := renderStatus(out, m)
		fmt.Fprintf(w, "%-30s %-10s %-14s %s\n", m.Name, formatSize(m.SizeBytes), tag, status)
	}
}

func renderStatus(out *termenv.Output, m ollama.Model) string {
	switch m.Status {
	case ollama.StatusRunning:
		s := "running"
		if m.VRAMBytes != nil {
			s += " (" + formatSize(*m.VRAMBytes) + " vram)"
		}
		return out.String(s).Foreground(out.Color("2")).String()
	case ollama.StatusStopped:
		return out.String("stopped").Faint().String()
	default:
		return out.String("unknown").Foreground(out.Color("3")).String()
	}
}

func printResources(w io.Writer, res *sysinfo.Metrics) {
	fmt.Fprintf(w, "CPU: %.1f%%\n", res.CPUPercent)
	fmt.Fprintf(w, "RAM: %s / %s\n", formatSize(int64(res.MemoryUsedBytes)), formatSize(int64(res.MemoryTotalBytes)))
	if res.GPU != nil {
		fmt.Fprintf(w, "GPU: %s %.0f%% · %s / %s vram · %d°C\n",
			res.GPU.Name, res.GPU.Percent,
			formatSize(res.GPU.VRAMUsedBytes), formatSize(res.GPU.VRAMTotalBytes),
			res.GPU.Temperature)
	}
}

// formatSize formats a byte count as a human-readable string.
func formatSize(bytes int64) string {
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
	return strings.TrimSuffix(fmt.Sprintf("%.1f", float64(bytes)/float64(div)), ".0") + " " + units[exp]
}
