package api

import (
	"context"
	"fmt"
	"net/url"
	"slices"
)

// TasksAPI is the typed resource group for tasks.
type TasksAPI struct {
	client *Client
}

// TaskList is one page of tasks.
type TaskList struct {
	Data       []Task     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ListTasksParams filter the task list.
type ListTasksParams struct {
	ProjectID string
	Status    string
	ListParams
}

func (p ListTasksParams) values() url.Values {
	v := p.ListParams.values()
	if p.ProjectID != "" {
		v.Set("projectId", p.ProjectID)
	}
	if p.Status != "" {
		v.Set("status", p.Status)
	}
	return v
}

// CreateTaskRequest creates a new task.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ProjectID   string   `json:"projectId"`
	Priority    string   `json:"priority,omitempty"`
	Type        string   `json:"type,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// List returns a page of tasks.
func (t *TasksAPI) List(ctx context.Context, params ListTasksParams) (*TaskList, error) {
	var list TaskList
	if err := t.client.get(ctx, "/tasks", params.values(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get returns a single task.
func (t *TasksAPI) Get(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := t.client.get(ctx, "/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create creates a task.
func (t *TasksAPI) Create(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	if req.Title == "" || req.ProjectID == "" {
		return nil, fmt.Errorf("task title and project id are required")
	}
	var task Task
	if err := t.client.post(ctx, "/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Move changes a task's board column.
func (t *TasksAPI) Move(ctx context.Context, id, status string) (*Task, error) {
	if !slices.Contains(TaskColumns, status) {
		return nil, fmt.Errorf("unknown task status %q", status)
	}
	var task Task
	body := map[string]string{"status": status}
	if err := t.client.patch(ctx, "/tasks/"+url.PathEscape(id), body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}
