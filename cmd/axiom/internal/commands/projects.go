package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/CPU-JIA/axiom-cli/internal/api"
)

type ProjectsCmd struct {
	List ProjectsListCmd `cmd:"" help:"List projects"`
	Show ProjectsShowCmd `cmd:"" help:"Show a single project"`
}

type ProjectsListCmd struct {
	Page   int    `help:"Page number" default:"1"`
	Limit  int    `help:"Projects per page" default:"20"`
	Search string `help:"Filter by name" default:""`
}

func (p *ProjectsListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.setup()
	if err != nil {
		return err
	}
	if err := app.enterPrivate(); err != nil {
		return err
	}

	list, err := app.client.Projects.List(ctx, api.ListParams{
		Page:   p.Page,
		Limit:  p.Limit,
		Search: p.Search,
	})
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(list.Data) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	fmt.Printf("%-36s %-25s %-12s %-8s %-9s\n", "ID", "Name", "Status", "Priority", "Progress")
	fmt.Println(strings.Repeat("─", 95))
	for _, project := range list.Data {
		fmt.Printf("%-36s %-25s %-12s %-8s %8d%%\n",
			project.ID,
			truncate(project.Name, 25),
			project.Status,
			project.Priority,
			project.Progress)
	}

	fmt.Printf("\nPage %d/%d (%d total)\n", list.Pagination.Page, list.Pagination.TotalPages, list.Pagination.Total)
	return nil
}

type ProjectsShowCmd struct {
	ID string `arg:"" help:"Project ID"`
}

func (p *ProjectsShowCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.setup()
	if err != nil {
		return err
	}
	if err := app.enterPrivate(); err != nil {
		return err
	}

	project, err := app.client.Projects.Get(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch project: %w", err)
	}

	fmt.Printf("Name:     %s\n", project.Name)
	fmt.Printf("Status:   %s (%d%%)\n", project.Status, project.Progress)
	fmt.Printf("Priority: %s\n", project.Priority)
	if project.Owner != nil {
		fmt.Printf("Owner:    %s (%s)\n", project.Owner.Name, project.Owner.Email)
	}
	if len(project.Tags) > 0 {
		fmt.Printf("Tags:     %s\n", strings.Join(project.Tags, ", "))
	}
	if project.Description != "" {
		fmt.Printf("\n%s\n", project.Description)
	}
	return nil
}
