package ollama

import "time"

// Status represents the lifecycle state of a model as reported by the server.
type Status int

const (
	StatusUnknown Status = iota
	StatusStopped        // Installed but not loaded into memory
	StatusRunning        // Loaded and serving
)

// String returns a human-readable status string.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Model is one model known to the serving process.
// Optional fields stay at their zero value (or nil) when the server
// did not report them, so "not reported" is distinguishable from zero.
type Model struct {
	Name          string
	SizeBytes     int64
	Digest        string
	Family        string
	ParameterSize string
	Quantization  string
	Format        string
	Status        Status

	// VRAMBytes is the resident GPU memory of a loaded model.
	// nil when the model is not loaded or the server didn't report it.
	VRAMBytes *int64

	// ExpiresAt is when the server will unload an idle loaded model.
	// nil when not loaded.
	ExpiresAt *time.Time
}

// Wire types for the serving API. Unknown fields are ignored by
// encoding/json, which gives us additive schema tolerance for free.

type tagsResponse struct {
	Models []tagEntry `json:"models"`
}

type tagEntry struct {
	Name    string       `json:"name"`
	Size    int64        `json:"size"`
	Digest  string       `json:"digest"`
	Details modelDetails `json:"details"`
}

type modelDetails struct {
	Family            string `json:"family"`
	Format            string `json:"format"`
	ParameterSize     string `json:"parameter_size"`
	QuantizationLevel string `json:"quantization_level"`
}

type psResponse struct {
	Models []psEntry `json:"models"`
}

type psEntry struct {
	Name      string       `json:"name"`
	Size      int64        `json:"size"`
	SizeVRAM  *int64       `json:"size_vram"`
	ExpiresAt *time.Time   `json:"expires_at"`
	Details   modelDetails `json:"details"`
}

type generateRequest struct {
	Model     string      `json:"model"`
	KeepAlive interface{} `json:"keep_alive,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
