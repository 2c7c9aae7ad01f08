package cli

import (
	"context"
	"fmt"

	"github.com/lazyllms/lazyllms/internal/config"
	"github.com/lazyllms/lazyllms/internal/logger"
	"github.com/lazyllms/lazyllms/internal/ollama"
	"github.com/lazyllms/lazyllms/internal/poll"
)

// noopRefresher satisfies the dispatcher's refresh hook for one-shot
// commands, where there is no scheduler to nudge.
type noopRefresher struct{}

func (noopRefresher) Refresh() {}

// lifecycleCommand starts or stops a model from the command line.
func lifecycleCommand(cfg *config.Config, action poll.Action, model string) error {
	log := logger.NewEnvLogger("cli")
	client := ollama.NewClient(cfg.Endpoint, cfg.Timeout, log)
	dispatcher := poll.NewDispatcher(client, noopRefresher{}, cfg.Timeout, log)

	if err := dispatcher.Execute(context.Background(), action, model); err != nil {
		return err
	}

	fmt.Printf("%s %s: ok\n", action, model)
	return nil
}
