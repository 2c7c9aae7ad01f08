package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazyllms/lazyllms/internal/config"
	llerrors "github.com/lazyllms/lazyllms/internal/errors"
)

// Global flags
var (
	configFlag   string
	endpointFlag string
)

// rootCmd is the base command for lazyllms.
var rootCmd = &cobra.Command{
	Use:   "lazyllms",
	Short: "Terminal dashboard for local LLM serving",
	Long: `lazyllms monitors a local model-serving endpoint (Ollama) alongside
host CPU, memory, and GPU usage, and lets you start and stop models
without leaving the terminal.

Run 'lazyllms tui' for the interactive dashboard, or 'lazyllms list'
for a one-shot status print.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "serving endpoint URL (overrides config)")
}

// Config returns the value of the global --config flag.
func Config() string {
	return configFlag
}

// loadConfig resolves the effective configuration: file (explicit or
// discovered) merged with defaults, then flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}

	if endpointFlag != "" {
		cfg.Endpoint = endpointFlag
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Execute runs the root command and exits nonzero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError writes an error to stderr. Structured errors already
// carry their own formatting and suggestion text.
func printError(err error) {
	var structured *llerrors.Error
	if errors.As(err, &structured) {
		fmt.Fprintln(os.Stderr, structured.Error())
		return
	}
	fmt.Fprintf(os.Stderr, "✗ %v\n", err)
}
