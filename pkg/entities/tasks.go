package entities

import (
	"context"
	"strings"

	"github.com/aretw0/shelf/pkg/core"
	"github.com/aretw0/shelf/pkg/typed"
)

// Task is a to-do item.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	DueDate     string `json:"dueDate,omitempty"`
}

type Tasks struct {
	*typed.Collection[Task]
}

func NewTasks(store *core.Store) *Tasks {
	return &Tasks{typed.New[Task](store, TasksNamespace)}
}

// Save validates and stores a task.
func (t *Tasks) Save(ctx context.Context, task Task) (Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return Task{}, invalid("task title is required")
	}
	return t.Collection.Save(ctx, task)
}

// Complete marks a task done. It reports false when the task does not exist.
func (t *Tasks) Complete(ctx context.Context, id string) (bool, error) {
	_, ok, err := t.Update(ctx, id, core.Record{"completed": true})
	return ok, err
}

// Pending returns the tasks not yet completed.
func (t *Tasks) Pending(ctx context.Context) ([]Task, error) {
	return t.Find(ctx, func(task Task) bool { return !task.Completed })
}
