package config

import "time"

// Config represents the complete lazyllms configuration file.
// All values are read once at startup; changes require a restart.
type Config struct {
	// Endpoint is the base URL of the model-serving control API.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Interval is the automatic refresh cadence of the dashboard.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout bounds each request to the serving endpoint.
	// Must not exceed Interval.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// GPUTimeout bounds the nvidia-smi query so a stuck driver
	// cannot stall CPU/memory reporting.
	GPUTimeout time.Duration `yaml:"gpu_timeout" mapstructure:"gpu_timeout"`

	// ShowLog opens the dashboard with the activity log panel visible.
	ShowLog bool `yaml:"show_log" mapstructure:"show_log"`

	// History is the number of samples retained per sparkline.
	History int `yaml:"history" mapstructure:"history"`
}

// Defaults for the configuration values.
const (
	DefaultEndpoint   = "http://localhost:11434"
	DefaultInterval   = 2 * time.Second
	DefaultTimeout    = 2 * time.Second
	DefaultGPUTimeout = 800 * time.Millisecond
	DefaultHistory    = 60
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:   DefaultEndpoint,
		Interval:   DefaultInterval,
		Timeout:    DefaultTimeout,
		GPUTimeout: DefaultGPUTimeout,
		ShowLog:    false,
		History:    DefaultHistory,
	}
}
