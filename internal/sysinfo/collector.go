// Package sysinfo samples host resource usage: CPU and memory via
// gopsutil, GPU/VRAM via an nvidia-smi query with its own timeout.
// Sampling is read-only and keeps no state between calls.
package sysinfo

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/lazyllms/lazyllms/internal/errors"
	"github.com/lazyllms/lazyllms/internal/logger"
)

// cpuSampleWindow is the measurement window for the CPU percentage.
// Short enough that a sample never noticeably delays a poll cycle.
const cpuSampleWindow = 200 * time.Millisecond

// gpuQuery returns the raw nvidia-smi CSV output. Swapped out in tests.
type gpuQuery func(ctx context.Context) (string, error)

// Collector reads host CPU, memory, and GPU utilization at call time.
type Collector struct {
	gpuTimeout time.Duration
	queryGPU   gpuQuery
	log        logger.Logger
}

// NewCollector creates a collector. gpuTimeout bounds the nvidia-smi
// query so a blocked driver cannot stall CPU/memory reporting.
func NewCollector(gpuTimeout time.Duration, log logger.Logger) *Collector {
	if log == nil {
		log = logger.Noop()
	}
	return &Collector{
		gpuTimeout: gpuTimeout,
		queryGPU:   runNvidiaSMI,
		log:        log,
	}
}

// Sample takes one resource reading. It fails only when the baseline
// CPU/memory metrics cannot be read; a missing GPU is reported as an
// absent GPU field, not an error.
func (c *Collector) Sample(ctx context.Context) (*Metrics, error) {
	cpuPercents, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false)
	if err != nil || len(cpuPercents) == 0 {
		return nil, errors.WrapWithCode(err, errors.ErrCollect,
			"Cannot read CPU usage",
			"Host CPU statistics are unavailable on this system")
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCollect,
			"Cannot read memory usage",
			"Host memory statistics are unavailable on this system")
	}

	m := &Metrics{
		CPUPercent:       cpuPercents[0],
		MemoryUsedBytes:  vm.Used,
		MemoryTotalBytes: vm.Total,
	}

	// GPU is best-effort with an isolated deadline
	gpuCtx, cancel := context.WithTimeout(ctx, c.gpuTimeout)
	defer cancel()

	output, err := c.queryGPU(gpuCtx)
	if err != nil {
		// No driver, no device, or a stuck query: all mean "no GPU data"
		c.log.Debug("gpu query failed: %v", err)
		return m, nil
	}

	gpu, err := ParseNvidiaSMI(output)
	if err != nil {
		c.log.Warn("unparseable nvidia-smi output: %v", err)
		return m, nil
	}
	m.GPU = gpu

	return m, nil
}
