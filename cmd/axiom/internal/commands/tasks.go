package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/CPU-JIA/axiom-cli/internal/api"
)

type TasksCmd struct {
	List  TasksListCmd  `cmd:"" help:"List tasks"`
	Board TasksBoardCmd `cmd:"" help:"Show the kanban board for a project"`
	Move  TasksMoveCmd  `cmd:"" help:"Move a task to another board column"`
}

type TasksListCmd struct {
	Project string `help:"Filter by project ID" default:""`
	Status  string `help:"Filter by status" default:""`
	Page    int    `help:"Page number" default:"1"`
	Limit   int    `help:"Tasks per page" default:"20"`
}

func (t *TasksListCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.setup()
	if err != nil {
		return err
	}
	if err := app.enterPrivate(); err != nil {
		return err
	}

	list, err := app.client.Tasks.List(ctx, api.ListTasksParams{
		ProjectID:  t.Project,
		Status:     t.Status,
		ListParams: api.ListParams{Page: t.Page, Limit: t.Limit},
	})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(list.Data) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	fmt.Printf("%-36s %-30s %-12s %-8s %-20s\n", "ID", "Title", "Status", "Priority", "Assignee")
	fmt.Println(strings.Repeat("─", 110))
	for _, task := range list.Data {
		assignee := "-"
		if task.Assignee != nil {
			assignee = truncate(task.Assignee.Name, 20)
		}
		fmt.Printf("%-36s %-30s %-12s %-8s %-20s\n",
			task.ID,
			truncate(task.Title, 30),
			task.Status,
			task.Priority,
			assignee)
	}

	fmt.Printf("\nPage %d/%d (%d total)\n", list.Pagination.Page, list.Pagination.TotalPages, list.Pagination.Total)
	return nil
}

type TasksBoardCmd struct {
	Project string `arg:"" help:"Project ID"`
}

func (t *TasksBoardCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.setup()
	if err != nil {
		return err
	}
	if err := app.enterPrivate(); err != nil {
		return err
	}

	list, err := app.client.Tasks.List(ctx, api.ListTasksParams{
		ProjectID:  t.Project,
		ListParams: api.ListParams{Limit: 100},
	})
	if err != nil {
		return fmt.Errorf("failed to fetch board: %w", err)
	}

	columns := make(map[string][]api.Task)
	for _, task := range list.Data {
		columns[task.Status] = append(columns[task.Status], task)
	}

	for _, status := range api.TaskColumns {
		tasks := columns[status]
		if len(tasks) == 0 {
			continue
		}
		fmt.Printf("%s (%d)\n", strings.ToUpper(status), len(tasks))
		for _, task := range tasks {
			fmt.Printf("  %-36s %s\n", task.ID, truncate(task.Title, 50))
		}
		fmt.Println()
	}
	return nil
}

type TasksMoveCmd struct {
	ID     string `arg:"" help:"Task ID"`
	Status string `arg:"" help:"Target column" enum:"backlog,todo,in_progress,in_review,testing,done,blocked"`
}

func (t *TasksMoveCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := globals.setup()
	if err != nil {
		return err
	}
	if err := app.enterPrivate(); err != nil {
		return err
	}

	task, err := app.client.Tasks.Move(ctx, t.ID, t.Status)
	if err != nil {
		return fmt.Errorf("failed to move task: %w", err)
	}

	fmt.Printf("Moved %q to %s\n", truncate(task.Title, 40), task.Status)
	return nil
}
