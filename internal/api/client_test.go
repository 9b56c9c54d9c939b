package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(data any) map[string]any {
	return map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"requestId": "req-1",
	}
}

func TestClient_Projects(t *testing.T) {
	t.Run("list decodes a page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/projects", r.URL.Path)
			assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))

			json.NewEncoder(w).Encode(envelope(map[string]any{
				"data": []map[string]any{
					{"id": "p-1", "name": "Axiom", "status": ProjectInProgress, "progress": 62},
				},
				"pagination": map[string]any{"page": 2, "limit": 20, "total": 41, "totalPages": 3, "hasNext": true, "hasPrev": true},
			}))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL + "/api/v1"}, authedStore(t, "tok-1"), nil)
		list, err := client.Projects.List(context.Background(), ListParams{Page: 2})
		require.NoError(t, err)
		require.Len(t, list.Data, 1)
		assert.Equal(t, "Axiom", list.Data[0].Name)
		assert.Equal(t, 62, list.Data[0].Progress)
		assert.True(t, list.Pagination.HasNext)
	})

	t.Run("get decodes a single project", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/projects/p-1", r.URL.Path)
			json.NewEncoder(w).Encode(envelope(map[string]any{"id": "p-1", "name": "Axiom"}))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL}, authedStore(t, "tok-1"), nil)
		project, err := client.Projects.Get(context.Background(), "p-1")
		require.NoError(t, err)
		assert.Equal(t, "Axiom", project.Name)
	})

	t.Run("create rejects a nameless project locally", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, anonStore(), nil)
		_, err := client.Projects.Create(context.Background(), CreateProjectRequest{})
		require.Error(t, err)
	})

	t.Run("unsuccessful envelope surfaces the error detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   map[string]any{"code": "PROJECT_ARCHIVED", "message": "project is archived"},
			})
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL}, authedStore(t, "tok-1"), nil)
		_, err := client.Projects.Get(context.Background(), "p-1")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "PROJECT_ARCHIVED", apiErr.Code)
		assert.Equal(t, "project is archived", apiErr.Message)
	})

	t.Run("5xx propagates unchanged as an API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL}, authedStore(t, "tok-1"), nil)
		_, err := client.Projects.List(context.Background(), ListParams{})

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	})
}

func TestClient_Tasks(t *testing.T) {
	t.Run("move patches the board column", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPatch, r.Method)
			assert.Equal(t, "/tasks/t-1", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, TaskDone, body["status"])

			json.NewEncoder(w).Encode(envelope(map[string]any{"id": "t-1", "title": "Ship it", "status": TaskDone}))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL}, authedStore(t, "tok-1"), nil)
		task, err := client.Tasks.Move(context.Background(), "t-1", TaskDone)
		require.NoError(t, err)
		assert.Equal(t, TaskDone, task.Status)
	})

	t.Run("move rejects an unknown column locally", func(t *testing.T) {
		client := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, anonStore(), nil)
		_, err := client.Tasks.Move(context.Background(), "t-1", "parked")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown task status")
	})

	t.Run("list filters by project and status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "p-1", r.URL.Query().Get("projectId"))
			assert.Equal(t, TaskInProgress, r.URL.Query().Get("status"))
			json.NewEncoder(w).Encode(envelope(map[string]any{
				"data":       []map[string]any{{"id": "t-1", "title": "Wire the board", "status": TaskInProgress}},
				"pagination": map[string]any{"page": 1, "limit": 20, "total": 1, "totalPages": 1},
			}))
		}))
		defer server.Close()

		client := NewClient(Config{BaseURL: server.URL}, authedStore(t, "tok-1"), nil)
		list, err := client.Tasks.List(context.Background(), ListTasksParams{ProjectID: "p-1", Status: TaskInProgress})
		require.NoError(t, err)
		require.Len(t, list.Data, 1)
		assert.Equal(t, "Wire the board", list.Data[0].Title)
	})
}
