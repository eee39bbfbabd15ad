package services

import (
	"context"
	"fmt"
	"sort"

	"tasklist/model"

	"github.com/google/uuid"
)

// TaskService validates requests and runs task queries on a TaskStore.
type TaskService struct {
	store TaskStore
	clock Clock
	newID func() string
}

type Option func(*TaskService)

func WithClock(c Clock) Option {
	return func(s *TaskService) { s.clock = c }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *TaskService) { s.newID = fn }
}

func NewTaskService(store TaskStore, opts ...Option) *TaskService {
	s := &TaskService{
		store: store,
		clock: NewHostClock(nil),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTask validates fields and stores a new task with a fresh id.
func (s *TaskService) CreateTask(ctx context.Context, fields map[string]any) (model.Task, error) {
	tf, err := validateCreate(fields)
	if err != nil {
		return model.Task{}, err
	}

	t := model.Task{
		ID:          s.newID(),
		Description: tf.Description,
		Task:        tf.Task,
		Priority:    *tf.Priority,
		Labels:      tf.Labels,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.store.Insert(ctx, t.ID, t); err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.store.Values(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksSorted returns every task by ascending priority. Equal
// priorities keep store order.
func (s *TaskService) ListTasksSorted(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	sortByPriority(tasks)
	return tasks, nil
}

// ListTasksByLabels returns tasks carrying at least one of labels, sorted
// like ListTasksSorted.
func (s *TaskService) ListTasksByLabels(ctx context.Context, labels []string) ([]model.Task, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	want := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		want[l] = struct{}{}
	}

	matched := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		for _, l := range t.Labels {
			if _, ok := want[l]; ok {
				matched = append(matched, t)
				break
			}
		}
	}
	sortByPriority(matched)
	return matched, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (model.Task, error) {
	t, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}
	if !ok {
		return model.Task{}, fmt.Errorf("task with id %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// UpdateTask merges the supplied fields over the stored task and stamps
// updatedAt. Fields that are not supplied keep their values; id and
// createdAt never change.
func (s *TaskService) UpdateTask(ctx context.Context, id string, fields map[string]any) (model.Task, error) {
	tf, present, err := validateUpdate(fields)
	if err != nil {
		return model.Task{}, err
	}

	updated, ok, err := s.store.Update(ctx, id, func(t model.Task) (model.Task, error) {
		for _, name := range present {
			switch name {
			case "Description":
				t.Description = tf.Description
			case "Task":
				t.Task = tf.Task
			case "Priority":
				t.Priority = *tf.Priority
			case "Labels":
				t.Labels = tf.Labels
			}
		}
		now := s.clock.Now()
		t.UpdatedAt = &now
		return t, nil
	})
	if err != nil {
		return model.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	if !ok {
		return model.Task{}, fmt.Errorf("task with id %s: %w", id, ErrNotFound)
	}
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) (model.Task, error) {
	t, ok, err := s.store.Remove(ctx, id)
	if err != nil {
		return model.Task{}, fmt.Errorf("delete task %s: %w", id, err)
	}
	if !ok {
		return model.Task{}, fmt.Errorf("task with id %s: %w", id, ErrNotFound)
	}
	return t, nil
}

// DeleteTasksByLabel removes every task carrying label and returns the
// tasks left in the store. It fails with ErrNotFound, leaving the store
// as it was, when no task has the label.
func (s *TaskService) DeleteTasksByLabel(ctx context.Context, label string) ([]model.Task, error) {
	return s.store.Replace(ctx, func(tasks []model.Task) ([]model.Task, error) {
		keep := make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			if !t.HasLabel(label) {
				keep = append(keep, t)
			}
		}
		if len(keep) == len(tasks) {
			return nil, fmt.Errorf("no tasks with label %s: %w", label, ErrNotFound)
		}
		return keep, nil
	})
}

func (s *TaskService) DeleteAllTasks(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("delete all tasks: %w", err)
	}
	return nil
}

func sortByPriority(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority < tasks[j].Priority
	})
}
