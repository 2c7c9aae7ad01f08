package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	llerrors "github.com/lazyllms/lazyllms/internal/errors"
	"github.com/lazyllms/lazyllms/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeout = 2 * time.Second

// fakeServer builds an httptest server speaking the serving API.
// generateStatus controls the response code for /api/generate.
func fakeServer(t *testing.T, tags, ps string, generateStatus int, generateBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.Write([]byte(tags))
		case "/api/ps":
			w.Write([]byte(ps))
		case "/api/generate":
			w.WriteHeader(generateStatus)
			w.Write([]byte(generateBody))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestListModels_MergesLoadedState(t *testing.T) {
	tags := `{"models":[
		{"name":"llama3:8b","size":4700000000,"digest":"abc123",
		 "details":{"family":"llama","format":"gguf","parameter_size":"8B","quantization_level":"Q4_K_M"}},
		{"name":"mistral:7b","size":4100000000,"digest":"def456",
		 "details":{"family":"mistral","format":"gguf","parameter_size":"7B","quantization_level":"Q4_0"}}
	]}`
	ps := `{"models":[
		{"name":"llama3:8b","size":4700000000,"size_vram":4200000000,
		 "expires_at":"2026-08-31T12:00:00Z"}
	]}`

	srv := fakeServer(t, tags, ps, http.StatusOK, "{}")
	defer srv.Close()

	client := NewClient(srv.URL, testTimeout, logger.Noop())
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)

	// Catalog order preserved
	assert.Equal(t, "llama3:8b", models[0].Name)
	assert.Equal(t, "mistral:7b", models[1].Name)

	// Loaded model carries running status and VRAM
	assert.Equal(t, StatusRunning, models[0].Status)
	require.NotNil(t, models[0].VRAMBytes)
	assert.Equal(t, int64(4200000000), *models[0].VRAMBytes)
	require.NotNil(t, models[0].ExpiresAt)

	// Metadata parsed from the details block
	assert.Equal(t, "llama", models[0].Family)
	assert.Equal(t, "8B", models[0].ParameterSize)
	assert.Equal(t, "Q4_K_M", models[0].Quantization)
	assert.Equal(t, int64(4700000000), models[0].SizeBytes)

	// Unloaded model is stopped, with VRAM absent rather than zero
	assert.Equal(t, StatusStopped, models[1].Status)
	assert.Nil(t, models[1].VRAMBytes)
	assert.Nil(t, models[1].ExpiresAt)
}

func TestListModels_LoadedModelMissingFromCatalog(t *testing.T) {
	tags := `{"models":[]}`
	ps := `{"models":[{"name":"phi3:mini","size":2000000000,"size_vram":1800000000}]}`

	srv := fakeServer(t, tags, ps, http.StatusOK, "{}")
	defer srv.Close()

	client := NewClient(srv.URL, testTimeout, logger.Noop())
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)

	assert.Equal(t, "phi3:mini", models[0].Name)
	assert.Equal(t, StatusRunning, models[0].Status)
}

func TestListModels_IgnoresUnknownFields(t *testing.T) {
	// Additive schema changes must not break parsing
	tags := `{"models":[{"name":"llama3:8b","size":1,"new_field":{"x":1},
		"details":{"family":"llama","future_flag":true}}],"total":1}`
	ps := `{"models":[],"unknown":"ok"}`

	srv := fakeServer(t, tags, ps, http.StatusOK, "{}")
	defer srv.Close()

	client := NewClient(srv.URL, testTimeout, logger.Noop())
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, "llama", models[0].Family)
}

func TestListModels_Unavailable(t *testing.T) {
	// A closed server looks like a down serving process
	srv := fakeServer(t, "{}", "{}", http.StatusOK, "{}")
	srv.Close()

	client := NewClient(srv.URL, testTimeout, logger.Noop())
	_, err := client.ListModels(context.Background())
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindUnavailable, kind)
}

func TestListModels_MalformedResponse(t *testing.T) {
	srv := fakeServer(t, "not json at all", "{}", http.StatusOK, "{}")
	defer srv.Close()

	client := NewClient(srv.URL, testTimeout, logger.Noop())
	_, err := client.ListModels(context.Background())
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindProtocol, kind)
}

func TestListModels_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testTimeout, logger.Noop())
	_, err := client.ListModels(context.Background())
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindProtocol, kind)
}

func TestListModels_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 50*time.Millisecond, logger.Noop())
	_, err := client.ListModels(context.Background())
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, kind)
}

func TestStart_SendsKeepAlive(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"done":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testTimeout, logger.Noop())
	require.NoError(t, client.Start(context.Background(), "llama3:8b"))

	assert.Equal(t, "llama3:8b", got.Model)
	assert.Equal(t, "5m", got.KeepAlive)
}

func TestStart_AlreadyRunningIsIdempotent(t *testing.T) {
	// The server answers a load request for a resident model with 200
	srv := fakeServer(t, "{}", "{}", http.StatusOK, `{"done":true}`)
	defer srv.Close()

	client := NewClient(srv.URL, testTimeout, logger.Noop())
	assert.NoError(t, client.Start(context.Background(), "llama3:8b"))
	assert.NoError(t, client.Start(context.Background(), "llama3:8b"))
}

func TestStop_SendsZeroKeepAlive(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"done":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testTimeout, logger.Noop())
	require.NoError(t, client.Stop(context.Background(), "llama3:8b"))

	// keep_alive: 0 must be present, not omitted
	val, present := got["keep_alive"]
	require.True(t, present)
	assert.EqualValues(t, 0, val)
}

func TestStop_NotRunningIsIdempotent(t *testing.T) {
	srv := fakeServer(t, "{}", "{}", http.StatusOK, `{"done":true}`)
	defer srv.Close()

	client := NewClient(srv.URL, testTimeout, logger.Noop())
	assert.NoError(t, client.Stop(context.Background(), "not-loaded:7b"))
}

func TestStart_UnknownModel(t *testing.T) {
	srv := fakeServer(t, "{}", "{}", http.StatusNotFound, `{"error":"model 'nope' not found"}`)
	defer srv.Close()

	client := NewClient(srv.URL, testTimeout, logger.Noop())
	err := client.Start(context.Background(), "nope")
	require.Error(t, err)

	// Server rejection is a command error, not a transport failure
	assert.True(t, llerrors.IsCode(err, llerrors.ErrCommand))
	_, isClientErr := KindOf(err)
	assert.False(t, isClientErr)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "UNAVAILABLE", KindUnavailable.String())
	assert.Equal(t, "PROTOCOL", KindProtocol.String())
	assert.Equal(t, "TIMEOUT", KindTimeout.String())
	assert.Equal(t, "UNKNOWN", ErrorKind(99).String())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "stopped", StatusStopped.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}
