package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"project-pulse/pkg/task"
)

// DemoTask is the task added during the demonstration.
var DemoTask = task.Task{
	ID:          4,
	Description: "Write documentation",
	Status:      task.StatusPending,
	DueDate:     time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC),
}

// RunDemo walks through task management, analysis and the simulated
// synchronization flow for the configured project. The management and
// analysis steps read the store directly and are skipped when the project
// is unknown; the delayed load then reports the missing project. The first
// failure stops the sequence and is returned.
func (a *App) RunDemo(ctx context.Context) error {
	p, err := a.Store.Get(ctx, a.Config.ProjectID)
	switch {
	case errors.Is(err, task.ErrProjectNotFound):
		a.Logger.Warn().
			Int("project_id", a.Config.ProjectID).
			Msg("project not in store, skipping task management and analysis")
	case err != nil:
		return err
	default:
		a.manageAndAnalyze(p)
	}

	a.heading("Synchronization and updates")

	loaded, err := a.Tracker.LoadProject(ctx, a.Config.ProjectID)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	a.section("Project loaded", loaded)

	if err := a.Tracker.UpdateTaskStatus(ctx, loaded, a.Config.TaskID, task.StatusCompleted); err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	fmt.Fprintf(a.Out, "Task %d marked as %s.\n\n", a.Config.TaskID, task.StatusCompleted)

	if _, err := a.Tracker.NotifyCompleted(ctx, a.Config.TaskID); err != nil {
		return err
	}

	reloaded, err := a.Tracker.LoadProject(ctx, a.Config.ProjectID)
	if err != nil {
		return fmt.Errorf("reload project: %w", err)
	}
	a.section("Project after update", reloaded)
	return nil
}

func (a *App) manageAndAnalyze(p *task.Project) {
	a.heading("Task management")

	a.section("Tasks before adding a new one", p.Tasks)
	task.AddTask(p, DemoTask)
	a.Logger.Debug().Int("project_id", p.ID).Int("task_id", DemoTask.ID).Msg("task added")
	a.section("Tasks after adding a new one", p.Tasks)
	a.section("Project summary", task.GenerateSummary(p))
	a.section("Tasks sorted by due date", task.SortByDueDate(p))

	a.heading("Task analysis")

	now := a.Tracker.Now()
	a.section("Pending tasks", task.FilterTasks(p, task.WithStatus(task.StatusPending)))
	a.section("Remaining days for open tasks", task.RemainingDays(p, now))
	a.section(fmt.Sprintf("Critical tasks (less than %d days left)", task.CriticalWindowDays), task.CriticalTasks(p, now))
}

func (a *App) heading(title string) {
	fmt.Fprintf(a.Out, "== %s ==\n\n", title)
}

func (a *App) section(title string, v any) {
	fmt.Fprintf(a.Out, "%s:\n", title)
	printJSON(a.Out, v)
	fmt.Fprintln(a.Out)
}
