package tracker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"project-pulse/pkg/eventgraph"
)

// TaskID extracts the task id carried by a task event.
func TaskID(e *eventgraph.Event) (int, error) {
	switch v := e.Content["task_id"].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("event %s: missing task_id", e.ID)
	}
}

// LogCompletions returns a handler that logs every completed task.
func LogCompletions(logger zerolog.Logger) eventgraph.Handler {
	return func(_ context.Context, e *eventgraph.Event) error {
		id, err := TaskID(e)
		if err != nil {
			return err
		}
		logger.Info().
			Str("event_id", e.ID).
			Int("task_id", id).
			Msgf("task %d has been completed", id)
		return nil
	}
}
