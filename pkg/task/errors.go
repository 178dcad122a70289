package task

import "errors"

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrDuplicateProject = errors.New("project already exists")
)
