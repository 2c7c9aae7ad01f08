package poll

import (
	"context"
	"time"

	"github.com/lazyllms/lazyllms/internal/logger"
)

// Action is a lifecycle action on a named model.
type Action int

const (
	ActionStart Action = iota
	ActionStop
)

// String returns a human-readable action name.
func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionStop:
		return "stop"
	default:
		return "unknown"
	}
}

// LifecycleClient starts and stops models by name.
type LifecycleClient interface {
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
}

// Refresher accepts out-of-band refresh requests.
type Refresher interface {
	Refresh()
}

// Dispatcher executes user-issued lifecycle actions outside the poll
// cycle. It runs independently of an in-flight poll; the client must be
// (and is) safe for concurrent use.
type Dispatcher struct {
	client    LifecycleClient
	refresher Refresher
	timeout   time.Duration
	log       logger.Logger
}

// NewDispatcher creates a dispatcher. timeout bounds each action.
func NewDispatcher(client LifecycleClient, refresher Refresher, timeout time.Duration, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Noop()
	}
	return &Dispatcher{
		client:    client,
		refresher: refresher,
		timeout:   timeout,
		log:       log,
	}
}

// Execute runs the action against the serving endpoint, then requests
// an immediate refresh regardless of outcome so the dashboard reflects
// either the new state or the failure.
func (d *Dispatcher) Execute(ctx context.Context, action Action, model string) error {
	defer d.refresher.Refresh()

	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var err error
	switch action {
	case ActionStart:
		err = d.client.Start(cctx, model)
	case ActionStop:
		err = d.client.Stop(cctx, model)
	}

	if err != nil {
		d.log.Warn("%s %s failed: %v", action, model, err)
		return err
	}

	d.log.Info("%s %s succeeded", action, model)
	return nil
}
