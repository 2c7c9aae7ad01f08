package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	llerrors "github.com/lazyllms/lazyllms/internal/errors"
	"github.com/lazyllms/lazyllms/internal/poll"
)

// Command-specific flags
var (
	tuiIntervalFlag string
	tuiShowLogFlag  bool
	initForce       bool
)

// listCmd prints a one-shot status snapshot
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print models and host usage once",
	Long: `Query the serving endpoint and the host OS once and print the result.

Shows every installed model with its load state and VRAM footprint,
followed by host CPU and memory usage. Exits nonzero if the serving
endpoint is unreachable.

Examples:
  lazyllms list
  lazyllms list --endpoint http://localhost:11434`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return listCommand(cfg, os.Stdout)
	},
}

// tuiCmd starts the interactive dashboard
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive model and resource dashboard",
	Long: `Start the interactive TUI dashboard.

Displays installed models with load state and VRAM usage, plus host
CPU, memory, and GPU metrics with sparkline history, refreshing on a
fixed cadence.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Force refresh
  up/k        Select previous model
  down/j      Select next model
  s           Start selected model
  x           Stop selected model
  l           Toggle activity log
  ?           Show help

Examples:
  lazyllms tui
  lazyllms tui --interval 5s
  lazyllms tui --log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if tuiIntervalFlag != "" {
			parsed, err := time.ParseDuration(tuiIntervalFlag)
			if err != nil {
				return llerrors.WrapWithCode(err, llerrors.ErrConfig,
					fmt.Sprintf("Invalid interval: %s", tuiIntervalFlag),
					"Use a valid duration like 2s, 5s, or 1m")
			}
			cfg.Interval = parsed
			if cfg.Timeout > cfg.Interval {
				cfg.Timeout = cfg.Interval
			}
		}
		if tuiShowLogFlag {
			cfg.ShowLog = true
		}

		return tuiCommand(cfg)
	},
}

// startCmd loads a model on the serving endpoint
var startCmd = &cobra.Command{
	Use:   "start <model>",
	Short: "Load a model",
	Long: `Ask the serving endpoint to load the named model into memory.

Starting a model that is already loaded succeeds without effect.

Examples:
  lazyllms start llama3:8b`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return lifecycleCommand(cfg, poll.ActionStart, args[0])
	},
}

// stopCmd unloads a model on the serving endpoint
var stopCmd = &cobra.Command{
	Use:   "stop <model>",
	Short: "Unload a model",
	Long: `Ask the serving endpoint to unload the named model from memory.

Stopping a model that is not loaded succeeds without effect.

Examples:
  lazyllms stop llama3:8b`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return lifecycleCommand(cfg, poll.ActionStop, args[0])
	},
}

// initCmd creates a config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a lazyllms config file",
	Long: `Initialize a lazyllms configuration file in the current directory.

Guides you through endpoint and refresh settings with interactive
prompts and writes the result as YAML.

Examples:
  lazyllms init
  lazyllms init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(InitOptions{Force: initForce})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for lazyllms.

Examples:
  # Bash
  lazyllms completion bash > /etc/bash_completion.d/lazyllms

  # Zsh
  lazyllms completion zsh > "${fpath[1]}/_lazyllms"

  # Fish
  lazyllms completion fish > ~/.config/fish/completions/lazyllms.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return llerrors.New(llerrors.ErrCommand,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// tui command flags
	tuiCmd.Flags().StringVar(&tuiIntervalFlag, "interval", "", "refresh interval (e.g., 2s, 5s, 1m)")
	tuiCmd.Flags().BoolVar(&tuiShowLogFlag, "log", false, "open with the activity log visible")

	// init command flags
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	// Register all commands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
