package task

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultSeed returns the projects the tracker starts with when no seed
// file is configured.
func DefaultSeed() []*Project {
	return []*Project{
		{
			ID:        101,
			Name:      "ProjectPulse",
			StartDate: date(2024, time.November, 1),
			Tasks: []Task{
				{ID: 1, Description: "Set up repository", Status: StatusCompleted, DueDate: date(2024, time.November, 5)},
				{ID: 2, Description: "Design database schema", Status: StatusInProgress, DueDate: date(2024, time.November, 20)},
				{ID: 3, Description: "Implement authentication", Status: StatusPending, DueDate: date(2024, time.November, 25)},
			},
		},
	}
}

type seedFile struct {
	Projects []*Project `toml:"projects"`
}

// LoadSeed reads projects from a TOML file of [[projects]] tables.
func LoadSeed(path string) ([]*Project, error) {
	var f seedFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	for _, p := range f.Projects {
		for _, t := range p.Tasks {
			if !t.Status.Valid() {
				return nil, fmt.Errorf("project %d task %d: %w: %q", p.ID, t.ID, ErrInvalidStatus, t.Status)
			}
		}
	}
	return f.Projects, nil
}

func date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
