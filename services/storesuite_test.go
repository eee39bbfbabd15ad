package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tasklist/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suiteBase = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func suiteTask(n int, labels ...string) model.Task {
	if labels == nil {
		labels = []string{}
	}
	return model.Task{
		ID:          fmt.Sprintf("task-%02d", n),
		Description: fmt.Sprintf("description %d", n),
		Task:        fmt.Sprintf("task %d", n),
		Priority:    float64(n),
		Labels:      labels,
		CreatedAt:   suiteBase.Add(time.Duration(n) * time.Second),
	}
}

// normalize drops time zone differences introduced by the backends.
func normalize(t model.Task) model.Task {
	t.CreatedAt = t.CreatedAt.UTC()
	if t.UpdatedAt != nil {
		u := t.UpdatedAt.UTC()
		t.UpdatedAt = &u
	}
	return t
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

// runStoreSuite checks the TaskStore contract against store.
func runStoreSuite(t *testing.T, store TaskStore) {
	ctx := context.Background()

	reset := func(t *testing.T, tasks ...model.Task) {
		t.Helper()
		require.NoError(t, store.Clear(ctx))
		for _, task := range tasks {
			require.NoError(t, store.Insert(ctx, task.ID, task))
		}
	}

	t.Run("InsertGet", func(t *testing.T) {
		want := suiteTask(1, "home")
		reset(t, want)

		got, ok, err := store.Get(ctx, want.ID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, normalize(got))
	})

	t.Run("GetMissing", func(t *testing.T) {
		reset(t)
		_, ok, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ValuesInsertionOrder", func(t *testing.T) {
		reset(t, suiteTask(1), suiteTask(2), suiteTask(3))

		tasks, err := store.Values(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"task-01", "task-02", "task-03"}, ids(tasks))
	})

	t.Run("ValuesInsertionOrderEqualCreatedAt", func(t *testing.T) {
		reset(t)
		for _, n := range []int{3, 1, 2} {
			task := suiteTask(n)
			task.CreatedAt = suiteBase
			require.NoError(t, store.Insert(ctx, task.ID, task))
		}

		tasks, err := store.Values(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"task-03", "task-01", "task-02"}, ids(tasks))

		overwrite := suiteTask(3)
		overwrite.CreatedAt = suiteBase
		overwrite.Description = "changed"
		require.NoError(t, store.Insert(ctx, overwrite.ID, overwrite))

		_, err = store.Replace(ctx, func(cur []model.Task) ([]model.Task, error) {
			return cur[:2], nil
		})
		require.NoError(t, err)

		tasks, err = store.Values(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"task-03", "task-01"}, ids(tasks))
		assert.Equal(t, "changed", tasks[0].Description)
	})

	t.Run("OverwriteKeepsPosition", func(t *testing.T) {
		reset(t, suiteTask(1), suiteTask(2), suiteTask(3))

		changed := suiteTask(1)
		changed.Priority = 42
		require.NoError(t, store.Insert(ctx, changed.ID, changed))

		tasks, err := store.Values(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"task-01", "task-02", "task-03"}, ids(tasks))
		assert.Equal(t, float64(42), tasks[0].Priority)
	})

	t.Run("Remove", func(t *testing.T) {
		reset(t, suiteTask(1), suiteTask(2))

		removed, ok, err := store.Remove(ctx, "task-01")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, suiteTask(1), normalize(removed))

		_, ok, err = store.Remove(ctx, "task-01")
		require.NoError(t, err)
		assert.False(t, ok)

		tasks, err := store.Values(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"task-02"}, ids(tasks))
	})

	t.Run("Clear", func(t *testing.T) {
		reset(t, suiteTask(1), suiteTask(2))
		require.NoError(t, store.Clear(ctx))

		tasks, err := store.Values(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("Update", func(t *testing.T) {
		reset(t, suiteTask(1, "a"))

		updated, ok, err := store.Update(ctx, "task-01", func(cur model.Task) (model.Task, error) {
			cur.Description = "changed"
			return cur, nil
		})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "changed", updated.Description)

		got, _, err := store.Get(ctx, "task-01")
		require.NoError(t, err)
		assert.Equal(t, "changed", got.Description)
		assert.Equal(t, []string{"a"}, got.Labels)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		reset(t)
		called := false
		_, ok, err := store.Update(ctx, "missing", func(cur model.Task) (model.Task, error) {
			called = true
			return cur, nil
		})
		require.NoError(t, err)
		assert.False(t, ok)
		assert.False(t, called)
	})

	t.Run("Replace", func(t *testing.T) {
		reset(t, suiteTask(1, "x"), suiteTask(2), suiteTask(3, "x"), suiteTask(4))

		result, err := store.Replace(ctx, func(cur []model.Task) ([]model.Task, error) {
			var keep []model.Task
			for _, task := range cur {
				if !task.HasLabel("x") {
					keep = append(keep, task)
				}
			}
			return keep, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"task-02", "task-04"}, ids(result))

		tasks, err := store.Values(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"task-02", "task-04"}, ids(tasks))
		assert.Equal(t, suiteTask(2), normalize(tasks[0]))
	})

	t.Run("ReplaceErrorLeavesStore", func(t *testing.T) {
		reset(t, suiteTask(1), suiteTask(2))
		boom := errors.New("boom")

		_, err := store.Replace(ctx, func([]model.Task) ([]model.Task, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)

		tasks, err := store.Values(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"task-01", "task-02"}, ids(tasks))
	})
}
