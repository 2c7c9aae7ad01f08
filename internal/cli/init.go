package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/lazyllms/lazyllms/internal/config"
	llerrors "github.com/lazyllms/lazyllms/internal/errors"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Force bool // Overwrite an existing config without asking
}

// fileConfig is the YAML shape written by init. Durations are written
// as strings ("2s") so the file stays hand-editable.
type fileConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Interval   string `yaml:"interval"`
	Timeout    string `yaml:"timeout"`
	GPUTimeout string `yaml:"gpu_timeout"`
	ShowLog    bool   `yaml:"show_log"`
	History    int    `yaml:"history"`
}

// initCommand creates a lazyllms config file in the current directory.
func initCommand(opts InitOptions) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Force {
		var overwrite bool

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)

		if err := form.Run(); err != nil {
			return llerrors.WrapWithCode(err, llerrors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}

		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	defaults := config.DefaultConfig()
	endpoint := defaults.Endpoint
	interval := defaults.Interval.String()
	showLog := defaults.ShowLog

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Serving endpoint").
				Description("Base URL of the Ollama API").
				Value(&endpoint),
			huh.NewInput().
				Title("Refresh interval").
				Description("How often the dashboard polls (e.g. 2s, 5s)").
				Value(&interval),
			huh.NewConfirm().
				Title("Open the dashboard with the activity log visible?").
				Value(&showLog),
		),
	)

	if err := form.Run(); err != nil {
		return llerrors.WrapWithCode(err, llerrors.ErrConfig,
			"Failed to get user input",
			"Check your terminal supports interactive prompts")
	}

	parsedInterval, err := time.ParseDuration(interval)
	if err != nil {
		return llerrors.WrapWithCode(err, llerrors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", interval),
			"Try something like 2s, 5s, or 1m")
	}

	cfg := config.DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.Interval = parsedInterval
	if cfg.Timeout > cfg.Interval {
		cfg.Timeout = cfg.Interval
	}
	cfg.ShowLog = showLog

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := writeConfigFile(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", configPath)
	fmt.Println("Run 'lazyllms tui' to start the dashboard.")
	return nil
}

// writeConfigFile renders the config as YAML and writes it to path.
func writeConfigFile(path string, cfg *config.Config) error {
	out := fileConfig{
		Endpoint:   cfg.Endpoint,
		Interval:   cfg.Interval.String(),
		Timeout:    cfg.Timeout.String(),
		GPUTimeout: cfg.GPUTimeout.String(),
		ShowLog:    cfg.ShowLog,
		History:    cfg.History,
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return llerrors.WrapWithCode(err, llerrors.ErrConfig,
			"Failed to render config as YAML", "")
	}

	header := []byte("# lazyllms configuration\n# See 'lazyllms tui --help' for key bindings.\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return llerrors.WrapWithCode(err, llerrors.ErrConfig,
			fmt.Sprintf("Failed to write %s", path),
			"Check directory permissions")
	}

	return nil
}
