package history_test

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/history"
)

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store1, err := history.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Save(report("exec-1", "wf", 0, circuitcraft.StatusCompleted)))
	require.NoError(t, store1.Close())

	// Reopening keeps the table and its rows.
	store2, err := history.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.Get("exec-1")
	require.NoError(t, err)
	assert.Equal(t, circuitcraft.StatusCompleted, got.Status)

	sums, err := store2.List("wf", 0)
	require.NoError(t, err)
	assert.Len(t, sums, 1)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := history.NewSQLiteStore("/nonexistent/path/history.db")
	assert.Error(t, err)
}

func TestSQLiteStore_CloseIdempotent(t *testing.T) {
	store, err := history.NewSQLiteStore(":memory:")
	require.NoError(t, err)

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_Concurrent(t *testing.T) {
	store, err := history.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	const numGoroutines = 20
	const numOps = 10

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				execID := fmt.Sprintf("exec-%d-%d", id, j)
				assert.NoError(t, store.Save(report(execID, "wf", j, circuitcraft.StatusCompleted)))
				_, err := store.Get(execID)
				assert.NoError(t, err)
				_, err = store.List("wf", 5)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	sums, err := store.List("", 0)
	require.NoError(t, err)
	assert.Len(t, sums, numGoroutines*numOps)
}
