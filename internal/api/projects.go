package api

import (
	"context"
	"fmt"
	"net/url"
)

// ProjectsAPI is the typed resource group for projects.
type ProjectsAPI struct {
	client *Client
}

// ProjectList is one page of projects.
type ProjectList struct {
	Data       []Project  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CreateProjectRequest creates a new project.
type CreateProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// List returns a page of projects visible to the current user.
func (p *ProjectsAPI) List(ctx context.Context, params ListParams) (*ProjectList, error) {
	var list ProjectList
	if err := p.client.get(ctx, "/projects", params.values(), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Get returns a single project.
func (p *ProjectsAPI) Get(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := p.client.get(ctx, "/projects/"+url.PathEscape(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Create creates a project.
func (p *ProjectsAPI) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}
	var project Project
	if err := p.client.post(ctx, "/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}
