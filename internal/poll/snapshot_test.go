package poll

import (
	"testing"
	"time"

	"github.com/lazyllms/lazyllms/internal/ollama"
	"github.com/lazyllms/lazyllms/internal/sysinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_FullSuccess(t *testing.T) {
	now := time.Now()
	resources := &sysinfo.Metrics{
		CPUPercent:       12.5,
		MemoryUsedBytes:  8_000_000_000,
		MemoryTotalBytes: 16_000_000_000,
	}
	models := []ollama.Model{
		{Name: "llama3", Status: ollama.StatusRunning, SizeBytes: 4_700_000_000},
	}

	snap := Merge(now, resources, nil, models, nil)

	require.NotNil(t, snap)
	assert.Equal(t, now, snap.TakenAt)
	assert.Empty(t, snap.CollectorErrors)

	require.Len(t, snap.Models, 1)
	assert.Equal(t, "llama3", snap.Models[0].Name)
	assert.Equal(t, ollama.StatusRunning, snap.Models[0].Status)

	require.NotNil(t, snap.Resources)
	assert.Equal(t, 12.5, snap.Resources.CPUPercent)
	assert.Nil(t, snap.Resources.GPU, "no GPU fields when the host reported none")

	assert.False(t, snap.ModelsStale())
	assert.False(t, snap.ResourcesStale())
}

func TestMerge_ModelClientTimeout(t *testing.T) {
	resources := &sysinfo.Metrics{CPUPercent: 5, MemoryUsedBytes: 1, MemoryTotalBytes: 2}
	clientErr := &ollama.ClientError{
		Kind: ollama.KindTimeout,
		Op:   "list",
		Err:  assert.AnError,
	}

	snap := Merge(time.Now(), resources, nil, nil, clientErr)

	// Models absent, resources still populated (partial-failure independence)
	assert.True(t, snap.ModelsStale())
	assert.False(t, snap.ResourcesStale())

	require.Len(t, snap.CollectorErrors, 1)
	ce := snap.CollectorErrors[0]
	assert.Equal(t, SourceModels, ce.Source)
	assert.Equal(t, "TIMEOUT", ce.Kind)
	assert.NotEmpty(t, ce.Message)
}

func TestMerge_ResourceCollectorFailure(t *testing.T) {
	models := []ollama.Model{{Name: "mistral:7b", Status: ollama.StatusStopped}}

	snap := Merge(time.Now(), nil, assert.AnError, models, nil)

	assert.True(t, snap.ResourcesStale())
	assert.False(t, snap.ModelsStale())

	require.Len(t, snap.CollectorErrors, 1)
	assert.Equal(t, SourceResources, snap.CollectorErrors[0].Source)
	assert.Equal(t, "COLLECT", snap.CollectorErrors[0].Kind)
}

func TestMerge_BothCollectorsFail(t *testing.T) {
	snap := Merge(time.Now(), nil, assert.AnError, nil, assert.AnError)

	assert.True(t, snap.ModelsStale())
	assert.True(t, snap.ResourcesStale())
	assert.Len(t, snap.CollectorErrors, 2)

	_, hasResources := snap.ErrorFor(SourceResources)
	_, hasModels := snap.ErrorFor(SourceModels)
	assert.True(t, hasResources)
	assert.True(t, hasModels)
}

func TestMerge_EmptyModelListIsNotStale(t *testing.T) {
	snap := Merge(time.Now(), nil, assert.AnError, nil, nil)

	// A server with zero models answered successfully
	assert.False(t, snap.ModelsStale())
	assert.NotNil(t, snap.Models)
	assert.Empty(t, snap.Models)
}

func TestMerge_PreservesServerOrder(t *testing.T) {
	models := []ollama.Model{
		{Name: "zlast"},
		{Name: "afirst"},
		{Name: "middle"},
	}

	snap := Merge(time.Now(), nil, nil, models, nil)

	// No implicit alphabetical resort
	require.Len(t, snap.Models, 3)
	assert.Equal(t, "zlast", snap.Models[0].Name)
	assert.Equal(t, "afirst", snap.Models[1].Name)
	assert.Equal(t, "middle", snap.Models[2].Name)
}

func TestSnapshot_RunningCount(t *testing.T) {
	snap := &Snapshot{
		Models: []ollama.Model{
			{Name: "a", Status: ollama.StatusRunning},
			{Name: "b", Status: ollama.StatusStopped},
			{Name: "c", Status: ollama.StatusRunning},
		},
	}
	assert.Equal(t, 2, snap.RunningCount())
}

func TestSnapshot_ErrorFor_Missing(t *testing.T) {
	snap := &Snapshot{}
	_, ok := snap.ErrorFor(SourceModels)
	assert.False(t, ok)
}
