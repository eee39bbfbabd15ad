package services

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()

	client, err := firestore.NewClient(ctx, "tasklist-test")
	require.NoError(t, err)
	defer client.Close()

	runStoreSuite(t, NewFirestoreStore(client, "Tasks-"+uuid.NewString()))
}

func TestTaskDocCarriesSeq(t *testing.T) {
	task := suiteTask(7, "home")
	doc := toDoc(task, 42)

	assert.Equal(t, int64(42), doc.Seq)
	assert.Equal(t, task, doc.task())

	task.Labels = nil
	assert.Equal(t, []string{}, toDoc(task, 1).Labels)
}
