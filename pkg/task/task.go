package task

import (
	"context"
	"fmt"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseStatus converts raw input into a Status, rejecting unknown values.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Task represents a unit of work inside a project.
type Task struct {
	ID          int       `json:"id" toml:"id"`
	Description string    `json:"description" toml:"description"`
	Status      Status    `json:"status" toml:"status"`
	DueDate     time.Time `json:"due_date" toml:"due_date"`
}

// Project owns an ordered list of tasks. Order is insertion order.
type Project struct {
	ID        int       `json:"id" toml:"id"`
	Name      string    `json:"name" toml:"name"`
	StartDate time.Time `json:"start_date" toml:"start_date"`
	Tasks     []Task    `json:"tasks" toml:"tasks"`
}

// Task returns a pointer to the first task with the given id, or nil.
func (p *Project) Task(id int) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// AddTask appends t to the project's tasks. Task ids are not checked for
// uniqueness; a duplicate id is appended like any other task.
func AddTask(p *Project, t Task) {
	p.Tasks = append(p.Tasks, t)
}

// Store is the contract for project storage.
type Store interface {
	// Get returns the project with the given id or ErrProjectNotFound.
	Get(ctx context.Context, id int) (*Project, error)

	// List returns all projects in insertion order.
	List(ctx context.Context) ([]*Project, error)

	// Add registers a project. Fails with ErrDuplicateProject when the id is taken.
	Add(ctx context.Context, p *Project) error
}
