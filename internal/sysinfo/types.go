package sysinfo

// Metrics is one host-resource sample.
type Metrics struct {
	CPUPercent       float64
	MemoryUsedBytes  uint64
	MemoryTotalBytes uint64

	// GPU is nil when no compatible GPU or driver is present.
	// "no GPU" and "GPU at 0% load" are different things.
	GPU *GPUMetrics
}

// GPUMetrics contains GPU usage as reported by nvidia-smi for device 0.
type GPUMetrics struct {
	Name           string
	Percent        float64
	VRAMUsedBytes  int64
	VRAMTotalBytes int64
	Temperature    int
}
