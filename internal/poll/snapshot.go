package poll

import (
	"time"

	"github.com/lazyllms/lazyllms/internal/ollama"
	"github.com/lazyllms/lazyllms/internal/sysinfo"
)

// Source identifies which collector produced an error.
type Source string

const (
	// SourceResources is the host CPU/memory/GPU collector.
	SourceResources Source = "RESOURCES"
	// SourceModels is the model status client.
	SourceModels Source = "MODEL_CLIENT"
)

// CollectorError records one collector failure on a snapshot.
type CollectorError struct {
	Source  Source
	Kind    string // UNAVAILABLE, PROTOCOL, TIMEOUT, or COLLECT
	Message string
}

// Snapshot is one immutable, timestamped bundle of model and resource
// state. A new poll cycle always produces a brand-new Snapshot; nothing
// ever mutates a published one.
type Snapshot struct {
	// TakenAt is strictly increasing across published snapshots.
	TakenAt time.Time

	// Models in server response order. nil when the model status
	// client failed this cycle (stale/absent, see CollectorErrors).
	Models []ollama.Model

	// Resources from the host sample. nil when the resource collector
	// failed this cycle.
	Resources *sysinfo.Metrics

	// CollectorErrors is empty on full success and holds exactly one
	// entry per failed source.
	CollectorErrors []CollectorError
}

// ModelsStale reports whether the model section is absent this cycle.
func (s *Snapshot) ModelsStale() bool {
	return s.Models == nil
}

// ResourcesStale reports whether the resource section is absent this cycle.
func (s *Snapshot) ResourcesStale() bool {
	return s.Resources == nil
}

// RunningCount returns how many models are currently loaded.
func (s *Snapshot) RunningCount() int {
	count := 0
	for _, m := range s.Models {
		if m.Status == ollama.StatusRunning {
			count++
		}
	}
	return count
}

// ErrorFor returns the collector error for a source, if any.
func (s *Snapshot) ErrorFor(source Source) (CollectorError, bool) {
	for _, ce := range s.CollectorErrors {
		if ce.Source == source {
			return ce, true
		}
	}
	return CollectorError{}, false
}

// Merge combines the results of one poll tick into a Snapshot.
// Pure: it only assembles, it never re-queries or carries forward
// values from a previous cycle.
func Merge(now time.Time, resources *sysinfo.Metrics, resourcesErr error, models []ollama.Model, modelsErr error) *Snapshot {
	snap := &Snapshot{TakenAt: now}

	if resourcesErr != nil {
		snap.CollectorErrors = append(snap.CollectorErrors, CollectorError{
			Source:  SourceResources,
			Kind:    "COLLECT",
			Message: resourcesErr.Error(),
		})
	} else {
		snap.Resources = resources
	}

	if modelsErr != nil {
		kind := "UNAVAILABLE"
		if k, ok := ollama.KindOf(modelsErr); ok {
			kind = k.String()
		}
		snap.CollectorErrors = append(snap.CollectorErrors, CollectorError{
			Source:  SourceModels,
			Kind:    kind,
			Message: modelsErr.Error(),
		})
	} else {
		if models == nil {
			// A successful listing with no models is an empty section,
			// distinct from a stale one
			models = []ollama.Model{}
		}
		snap.Models = models
	}

	return snap
}
