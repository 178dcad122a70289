package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"project-pulse/pkg/task"
)

// Reports maps report names to the project query they print.
var Reports = map[string]func(a *App, p *task.Project) any{
	"summary": func(_ *App, p *task.Project) any {
		return task.GenerateSummary(p)
	},
	"sorted": func(_ *App, p *task.Project) any {
		return task.SortByDueDate(p)
	},
	"pending": func(_ *App, p *task.Project) any {
		return task.FilterTasks(p, task.WithStatus(task.StatusPending))
	},
	"remaining": func(a *App, p *task.Project) any {
		return map[string]int{"remaining_days": task.RemainingDays(p, a.Tracker.Now())}
	},
	"critical": func(a *App, p *task.Project) any {
		return task.CriticalTasks(p, a.Tracker.Now())
	},
}

// Report prints the named report for the configured project as JSON.
func (a *App) Report(ctx context.Context, name string) error {
	report, ok := Reports[name]
	if !ok {
		return fmt.Errorf("unknown report: %s", name)
	}
	p, err := a.Store.Get(ctx, a.Config.ProjectID)
	if err != nil {
		return err
	}
	printJSON(a.Out, report(a, p))
	return nil
}

func printJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "marshal: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}
