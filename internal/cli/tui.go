package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/lazyllms/lazyllms/internal/config"
	"github.com/lazyllms/lazyllms/internal/dashboard"
	llerrors "github.com/lazyllms/lazyllms/internal/errors"
	"github.com/lazyllms/lazyllms/internal/logger"
	"github.com/lazyllms/lazyllms/internal/ollama"
	"github.com/lazyllms/lazyllms/internal/poll"
	"github.com/lazyllms/lazyllms/internal/sysinfo"
)

// tuiCommand wires the collectors, scheduler, and dispatcher together
// and runs the dashboard until the user quits.
func tuiCommand(cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return llerrors.New(llerrors.ErrCommand,
			"Standard output is not a terminal",
			"The dashboard needs an interactive terminal. Try 'lazyllms list' for plain output.")
	}

	log := logger.NewEnvLogger("tui")
	client := ollama.NewClient(cfg.Endpoint, cfg.Timeout, log)
	collector := sysinfo.NewCollector(cfg.GPUTimeout, log)

	scheduler := poll.NewScheduler(collector, client, cfg.Interval, cfg.Timeout, log)
	dispatcher := poll.NewDispatcher(client, scheduler, cfg.Timeout, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = scheduler.Run(ctx)
	}()

	model := dashboard.NewModel(scheduler, dispatcher, dashboard.Options{
		HistorySize: cfg.History,
		ShowLog:     cfg.ShowLog,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
