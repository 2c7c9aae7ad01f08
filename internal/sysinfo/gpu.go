package sysinfo

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// nvidiaSMIArgs queries device utilization in machine-readable CSV.
var nvidiaSMIArgs = []string{
	"--query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu",
	"--format=csv,noheader,nounits",
}

// runNvidiaSMI executes nvidia-smi under the given context.
func runNvidiaSMI(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "nvidia-smi", nvidiaSMIArgs...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ParseNvidiaSMI parses GPU metrics from nvidia-smi CSV output.
// Expected input is from:
//
//	nvidia-smi --query-gpu=name,utilization.gpu,memory.used,memory.total,temperature.gpu --format=csv,noheader,nounits
//
// With multiple devices only the first line (device 0) is used.
// Returns nil, nil if no GPU is available (empty output or a failure
// indicator instead of CSV).
func ParseNvidiaSMI(output string) (*GPUMetrics, error) {
	output = strings.TrimSpace(output)

	if output == "" {
		return nil, nil
	}

	// Check for common error indicators
	lowerOutput := strings.ToLower(output)
	if strings.Contains(lowerOutput, "no devices") ||
		strings.Contains(lowerOutput, "not found") ||
		strings.Contains(lowerOutput, "failed") ||
		strings.Contains(lowerOutput, "error") ||
		strings.Contains(lowerOutput, "command not found") {
		return nil, nil
	}

	// Device 0 only
	if idx := strings.IndexByte(output, '\n'); idx >= 0 {
		output = output[:idx]
	}

	// Example: "NVIDIA GeForce RTX 3080, 45, 2048, 10240, 65"
	fields := strings.Split(output, ",")
	if len(fields) < 5 {
		return nil, fmt.Errorf("nvidia-smi output has insufficient fields: expected 5, got %d", len(fields))
	}

	metrics := &GPUMetrics{}
	metrics.Name = strings.TrimSpace(fields[0])

	utilStr := strings.TrimSpace(fields[1])
	if utilStr != "" && utilStr != "[N/A]" {
		util, err := strconv.ParseFloat(utilStr, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GPU utilization '%s': %w", utilStr, err)
		}
		metrics.Percent = util
	}

	memUsedStr := strings.TrimSpace(fields[2])
	if memUsedStr != "" && memUsedStr != "[N/A]" {
		memUsed, err := strconv.ParseInt(memUsedStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GPU memory used '%s': %w", memUsedStr, err)
		}
		// MiB to bytes
		metrics.VRAMUsedBytes = memUsed * 1024 * 1024
	}

	memTotalStr := strings.TrimSpace(fields[3])
	if memTotalStr != "" && memTotalStr != "[N/A]" {
		memTotal, err := strconv.ParseInt(memTotalStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GPU memory total '%s': %w", memTotalStr, err)
		}
		// MiB to bytes
		metrics.VRAMTotalBytes = memTotal * 1024 * 1024
	}

	tempStr := strings.TrimSpace(fields[4])
	if tempStr != "" && tempStr != "[N/A]" {
		temp, err := strconv.Atoi(tempStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GPU temperature '%s': %w", tempStr, err)
		}
		metrics.Temperature = temp
	}

	return metrics, nil
}
