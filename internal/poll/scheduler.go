package poll

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lazyllms/lazyllms/internal/logger"
	"github.com/lazyllms/lazyllms/internal/ollama"
	"github.com/lazyllms/lazyllms/internal/sysinfo"
)

// State is the scheduler's position in the poll cycle.
type State int32

const (
	StateIdle State = iota
	StatePolling
	StatePublished
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StatePublished:
		return "published"
	default:
		return "unknown"
	}
}

// ResourceSampler samples host resource metrics.
type ResourceSampler interface {
	Sample(ctx context.Context) (*sysinfo.Metrics, error)
}

// ModelLister lists models from the serving endpoint.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ollama.Model, error)
}

// Scheduler owns the refresh cadence. It is the only publisher of
// snapshots; everything else reads them through Latest or Updates.
type Scheduler struct {
	resources ResourceSampler
	models    ModelLister
	interval  time.Duration
	timeout   time.Duration
	log       logger.Logger

	refresh chan struct{}  // manual refresh requests, capacity 1 (coalesced)
	updates chan *Snapshot // newest published snapshot, capacity 1 (replaced)

	latest    atomic.Pointer[Snapshot]
	state     atomic.Int32
	lastTaken time.Time // only touched by the Run goroutine
}

// NewScheduler creates a scheduler. interval is the automatic cadence,
// timeout bounds each cycle's collector calls and must not exceed interval.
func NewScheduler(resources ResourceSampler, models ModelLister, interval, timeout time.Duration, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Noop()
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &Scheduler{
		resources: resources,
		models:    models,
		interval:  interval,
		timeout:   timeout,
		log:       log,
		refresh:   make(chan struct{}, 1),
		updates:   make(chan *Snapshot, 1),
	}
}

// Updates returns the channel carrying newly published snapshots.
// Only the newest unconsumed snapshot is retained.
func (s *Scheduler) Updates() <-chan *Snapshot {
	return s.updates
}

// Latest returns the most recently published snapshot, or nil before
// the first cycle completes.
func (s *Scheduler) Latest() *Snapshot {
	return s.latest.Load()
}

// State returns the scheduler's current cycle state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Refresh requests an immediate poll cycle. Non-blocking: requests
// arriving while a cycle is in flight are coalesced into it.
func (s *Scheduler) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
		// A refresh is already pending; one cycle covers both
	}
}

// Run drives the poll loop until ctx is cancelled. An initial cycle
// runs immediately so consumers have data before the first tick.
// All cycles execute on this goroutine, which is what guarantees that
// no two poll cycles ever overlap.
func (s *Scheduler) Run(ctx context.Context) error {
	s.runCycle(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		s.state.Store(int32(StateIdle))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			s.runCycle(ctx)
		case <-s.refresh:
			s.log.Debug("manual refresh")
			s.runCycle(ctx)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Coalesce: a refresh requested mid-cycle is satisfied by the
		// cycle that just ran
		select {
		case <-s.refresh:
		default:
		}

		// Reschedule from the end of this cycle so a manual refresh
		// doesn't double-fire with the next automatic tick
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(s.interval)
	}
}

// runCycle executes one POLLING phase: concurrent collection, merge,
// publish. Nothing is published if ctx was cancelled mid-cycle.
func (s *Scheduler) runCycle(ctx context.Context) {
	s.state.Store(int32(StatePolling))

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		resources    *sysinfo.Metrics
		resourcesErr error
		models       []ollama.Model
		modelsErr    error
	)

	// Neither collector depends on the other; run both and wait for
	// the slower one (or its timeout)
	g, gctx := errgroup.WithContext(cctx)
	g.Go(func() error {
		resources, resourcesErr = s.resources.Sample(gctx)
		return nil
	})
	g.Go(func() error {
		models, modelsErr = s.models.ListModels(gctx)
		return nil
	})
	_ = g.Wait() // collector errors travel via the captured variables

	// Shutdown mid-poll: abandon the results, publish nothing
	if ctx.Err() != nil {
		s.log.Debug("cycle abandoned: %v", ctx.Err())
		return
	}

	snap := Merge(s.takenAt(), resources, resourcesErr, models, modelsErr)
	for _, ce := range snap.CollectorErrors {
		s.log.Warn("collector %s failed (%s): %s", ce.Source, ce.Kind, ce.Message)
	}

	s.publish(snap)
	s.state.Store(int32(StatePublished))
}

// takenAt returns a timestamp strictly after the previous cycle's,
// even on platforms with coarse clocks.
func (s *Scheduler) takenAt() time.Time {
	now := time.Now()
	if !now.After(s.lastTaken) {
		now = s.lastTaken.Add(time.Nanosecond)
	}
	s.lastTaken = now
	return now
}

// publish atomically swaps in the new snapshot and offers it on the
// updates channel, replacing an unconsumed stale one.
func (s *Scheduler) publish(snap *Snapshot) {
	s.latest.Store(snap)

	select {
	case s.updates <- snap:
		return
	default:
	}

	// Channel full: drop the stale pending snapshot. Run is the sole
	// sender, so the retry cannot block.
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- snap:
	default:
	}
}
