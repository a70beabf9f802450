package n8n

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conexia/flowlens/pkg/models"
)

func TestClient_Executions(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/executions", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-N8N-API-KEY"))

		query := r.URL.Query()
		assert.Equal(t, "true", query.Get("includeData"))
		assert.Equal(t, "wf-1", query.Get("workflowId"))
		assert.Equal(t, "error", query.Get("status"))
		assert.Equal(t, "25", query.Get("limit"))
		assert.Equal(t, "cur-2", query.Get("cursor"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ExecutionList{
			Data: []*models.Execution{
				{ID: "e1", Status: models.ExecutionStatusError, StartedAt: started},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", slog.Default())

	list, err := client.Executions(t.Context(), ListOptions{
		WorkflowID: "wf-1",
		Status:     "error",
		Cursor:     "cur-2",
		Limit:      25,
	})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "e1", list.Data[0].ID)
	assert.Equal(t, started, list.Data[0].StartedAt)
}

func TestClient_ExecutionsDefaults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "50", query.Get("limit"))
		assert.Empty(t, query.Get("workflowId"))
		assert.Empty(t, query.Get("status"))

		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", slog.Default())

	list, err := client.Executions(t.Context(), ListOptions{Status: "all"})
	require.NoError(t, err)
	assert.Empty(t, list.Data)
}

func TestClient_ExecutionsUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "unauthorized"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", slog.Default())

	_, err := client.Executions(t.Context(), ListOptions{})
	require.Error(t, err)
	assert.True(t, IsUpstreamError(err))
}

func TestClient_ExecutionsInvalidBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", slog.Default())

	_, err := client.Executions(t.Context(), ListOptions{})
	require.Error(t, err)
	assert.True(t, IsUpstreamError(err))
}

func TestClient_Execution(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/executions/e42", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("includeData"))

		_, _ = w.Write([]byte(`{"id": "e42", "status": "success", "startedAt": "2026-03-01T10:00:00Z"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", slog.Default())

	execution, err := client.Execution(t.Context(), "e42")
	require.NoError(t, err)
	assert.Equal(t, "e42", execution.ID)
	assert.Equal(t, models.ExecutionStatusSuccess, execution.Status)
}

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	client := NewClient("http://127.0.0.1:1", "secret", slog.Default())

	_, err := client.Executions(t.Context(), ListOptions{})
	require.Error(t, err)
	assert.True(t, IsUpstreamError(err))
}
