package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"tasklist/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Insert(ctx, "a", suiteTask(1, "home")))

	got, _, err := store.Get(ctx, "a")
	require.NoError(t, err)
	got.Labels[0] = "mutated"

	again, _, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, again.Labels)
}

func TestMemoryStoreReplaceIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for i := 0; i < 50; i++ {
		task := suiteTask(i, "drop")
		require.NoError(t, store.Insert(ctx, task.ID, task))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 100; i < 200; i++ {
			task := suiteTask(i)
			task.ID = fmt.Sprintf("kept-%d", i)
			assert.NoError(t, store.Insert(ctx, task.ID, task))
		}
	}()
	go func() {
		defer wg.Done()
		_, err := store.Replace(ctx, func(cur []model.Task) ([]model.Task, error) {
			keep := make([]model.Task, 0, len(cur))
			for _, task := range cur {
				if !task.HasLabel("drop") {
					keep = append(keep, task)
				}
			}
			return keep, nil
		})
		assert.NoError(t, err)
	}()
	wg.Wait()

	tasks, err := store.Values(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 100)
	for _, task := range tasks {
		assert.False(t, task.HasLabel("drop"))
	}
}
