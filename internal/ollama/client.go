// Package ollama implements the HTTP client for the local model-serving
// control endpoint. It reports which models exist, which are loaded, and
// drives start/stop lifecycle actions with desired-state semantics.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	llerrors "github.com/lazyllms/lazyllms/internal/errors"
	"github.com/lazyllms/lazyllms/internal/logger"
)

// ErrorKind classifies a client failure.
type ErrorKind int

const (
	// KindUnavailable means the serving process is down or unreachable.
	KindUnavailable ErrorKind = iota
	// KindProtocol means the server responded with something we can't parse.
	KindProtocol
	// KindTimeout means the request exceeded its deadline.
	KindTimeout
)

// String returns the wire-friendly name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "UNAVAILABLE"
	case KindProtocol:
		return "PROTOCOL"
	case KindTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// ClientError is a communication failure with the serving endpoint.
// Never fatal to the program: poll cycles record it on the snapshot.
type ClientError struct {
	Kind ErrorKind
	Op   string // "list", "start", "stop"
	Err  error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind from an error chain.
// Returns KindUnavailable, false for non-client errors.
func KindOf(err error) (ErrorKind, bool) {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return KindUnavailable, false
}

// keepAliveLoad keeps a started model resident long enough to be useful.
const keepAliveLoad = "5m"

// Client talks to an Ollama-compatible control endpoint.
// Safe for concurrent use: the poll scheduler and the command
// dispatcher may call into it at the same time.
type Client struct {
	base string
	http *http.Client
	log  logger.Logger
}

// NewClient creates a client for the given base URL (no /api suffix).
// Every request is bounded by timeout.
func NewClient(base string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.Noop()
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
}

// ListModels returns every model the server knows about, in server order,
// with loaded models marked StatusRunning. Models reported as loaded but
// missing from the catalog are appended after the catalog entries.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var tags tagsResponse
	if err := c.getJSON(ctx, "list", "/api/tags", &tags); err != nil {
		return nil, err
	}

	var ps psResponse
	if err := c.getJSON(ctx, "list", "/api/ps", &ps); err != nil {
		return nil, err
	}

	loaded := make(map[string]psEntry, len(ps.Models))
	for _, entry := range ps.Models {
		loaded[entry.Name] = entry
	}

	models := make([]Model, 0, len(tags.Models))
	for _, tag := range tags.Models {
		m := Model{
			Name:          tag.Name,
			SizeBytes:     tag.Size,
			Digest:        tag.Digest,
			Family:        tag.Details.Family,
			ParameterSize: tag.Details.ParameterSize,
			Quantization:  tag.Details.QuantizationLevel,
			Format:        tag.Details.Format,
			Status:        StatusStopped,
		}
		if entry, ok := loaded[tag.Name]; ok {
			m.Status = StatusRunning
			m.VRAMBytes = entry.SizeVRAM
			m.ExpiresAt = entry.ExpiresAt
			delete(loaded, tag.Name)
		}
		models = append(models, m)
	}

	// Loaded models the catalog doesn't list (e.g. pulled mid-poll)
	for _, entry := range ps.Models {
		if _, stillLoaded := loaded[entry.Name]; !stillLoaded {
			continue
		}
		models = append(models, Model{
			Name:          entry.Name,
			SizeBytes:     entry.Size,
			Family:        entry.Details.Family,
			ParameterSize: entry.Details.ParameterSize,
			Quantization:  entry.Details.QuantizationLevel,
			Format:        entry.Details.Format,
			Status:        StatusRunning,
			VRAMBytes:     entry.SizeVRAM,
			ExpiresAt:     entry.ExpiresAt,
		})
	}

	c.log.Debug("listed %d models (%d loaded)", len(models), len(ps.Models))
	return models, nil
}

// Start loads a model into memory. Starting an already-running model
// succeeds: the server treats the load request as a no-op.
func (c *Client) Start(ctx context.Context, name string) error {
	c.log.Debug("starting model %s", name)
	return c.generate(ctx, "start", generateRequest{Model: name, KeepAlive: keepAliveLoad})
}

// Stop unloads a model from memory. Stopping a model that is not
// running succeeds: unloading is expressed as keep_alive 0, which the
// server accepts whether or not the model is resident.
func (c *Client) Stop(ctx context.Context, name string) error {
	c.log.Debug("stopping model %s", name)
	return c.generate(ctx, "stop", generateRequest{Model: name, KeepAlive: 0})
}

// getJSON issues a GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, op, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return &ClientError{Kind: KindProtocol, Op: op, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.classify(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Kind: KindProtocol,
			Op:   op,
			Err:  fmt.Errorf("%s returned status %d", path, resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Kind: KindProtocol, Op: op, Err: err}
	}

	return nil
}

// generate issues the lifecycle request and drains the streamed response.
func (c *Client) generate(ctx context.Context, op string, reqBody generateRequest) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return &ClientError{Kind: KindProtocol, Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return &ClientError{Kind: KindProtocol, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return c.classify(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
		// Server rejected the action (e.g. unknown model name)
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			msg = fmt.Sprintf("server rejected %s with status %d", op, resp.StatusCode)
		}
		return llerrors.New(llerrors.ErrCommand,
			fmt.Sprintf("Cannot %s '%s': %s", op, reqBody.Model, msg),
			"Check the model name with 'lazyllms list'")
	}

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Kind: KindProtocol,
			Op:   op,
			Err:  fmt.Errorf("generate returned status %d", resp.StatusCode),
		}
	}

	// The load/unload response streams progress lines; drain so the
	// server finishes the action before we trigger the follow-up refresh.
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// classify maps a transport error to a client error kind.
func (c *Client) classify(op string, err error) *ClientError {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &ClientError{Kind: KindTimeout, Op: op, Err: err}
	}
	return &ClientError{Kind: KindUnavailable, Op: op, Err: err}
}

// readErrorMessage extracts the "error" field from a JSON error body.
func readErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var errResp errorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return errResp.Error
	}
	return strings.TrimSpace(string(body))
}
