package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lazyllms/lazyllms/internal/errors"
)

// MinInterval is the shortest allowed refresh cadence. Anything faster
// just hammers the serving endpoint without making the dashboard more useful.
const MinInterval = 500 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return err
	}

	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval %s is too short", cfg.Interval),
			fmt.Sprintf("Use at least %s, e.g. interval: 2s", MinInterval))
	}

	if cfg.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			"Request timeout must be positive",
			"Use something like timeout: 2s")
	}

	// A request timeout longer than the poll interval would let a slow
	// endpoint stall the cadence.
	if cfg.Timeout > cfg.Interval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Request timeout %s exceeds the refresh interval %s", cfg.Timeout, cfg.Interval),
			"Keep timeout at or below interval so one slow request can't miss a refresh")
	}

	if cfg.GPUTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"GPU query timeout must be positive",
			"Use something like gpu_timeout: 800ms")
	}

	if cfg.History < 2 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("History size %d is too small for sparklines", cfg.History),
			"Use at least 2, the default is 60")
	}

	return nil
}

// validateEndpoint checks the endpoint is a usable HTTP(S) base URL.
func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return errors.New(errors.ErrConfig,
			"Endpoint is empty",
			"Set endpoint to the serving API base, e.g. http://localhost:11434")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Endpoint '%s' is not a valid URL", endpoint),
			"Use a full base URL like http://localhost:11434")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Endpoint '%s' must use http or https", endpoint),
			"Use a full base URL like http://localhost:11434")
	}

	if u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Endpoint '%s' has no host", endpoint),
			"Use a full base URL like http://localhost:11434")
	}

	if strings.HasSuffix(u.Path, "/api") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Endpoint '%s' should not include the /api path", endpoint),
			"lazyllms appends API paths itself; use just the base URL")
	}

	return nil
}
