package session

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kube-assistant/kube-assistant/internal/kubectl"
)

func testTurn(query string) Turn {
	return Turn{
		Query:     query,
		Namespace: "default",
		ToolCalls: []ToolCall{{
			Request: kubectl.Request{Tool: kubectl.ToolGet, Resource: "pods", Namespace: "default"},
			Result:  kubectl.Result{Stdout: "NAME READY\nweb-0 1/1", Elapsed: 120 * time.Millisecond},
		}},
		Answer:    "One pod is running.",
		Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestAppendHistoryRoundTrip(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)

	turn := testTurn("show me pods")
	store.Append(turn)

	history := store.History()
	require.Len(t, history, 1)
	assert.Equal(t, turn, history[0])
}

func TestHistoryIsASnapshot(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	store.Append(testTurn("first"))

	history := store.History()
	history[0].Answer = "mutated"
	history[0].ToolCalls[0].Result.Stdout = "mutated"

	fresh := store.History()
	assert.Equal(t, "One pod is running.", fresh[0].Answer)
	assert.Equal(t, "NAME READY\nweb-0 1/1", fresh[0].ToolCalls[0].Result.Stdout)
}

func TestEvictionDropsOldestFirst(t *testing.T) {
	store, err := NewStore(WithMaxTurns(3))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		store.Append(testTurn(fmt.Sprintf("query %d", i)))
	}

	history := store.History()
	require.Len(t, history, 3)
	assert.Equal(t, "query 2", history[0].Query)
	// The turn just appended is never the one evicted.
	assert.Equal(t, "query 4", history[2].Query)
}

func TestTruncate(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		store.Append(testTurn(fmt.Sprintf("query %d", i)))
	}

	store.Truncate(2)

	history := store.History()
	require.Len(t, history, 2)
	assert.Equal(t, "query 2", history[0].Query)
}

func TestPersistenceAcrossStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	first, err := NewStore(WithPath(path))
	require.NoError(t, err)
	first.Append(testTurn("persisted question"))
	require.NoError(t, first.Save())

	second, err := NewStore(WithPath(path))
	require.NoError(t, err)

	assert.Equal(t, first.SessionID(), second.SessionID())
	history := second.History()
	require.Len(t, history, 1)
	assert.Equal(t, "persisted question", history[0].Query)
}

func TestClearRemovesPersistedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	store, err := NewStore(WithPath(path))
	require.NoError(t, err)
	store.Append(testTurn("gone soon"))
	require.NoError(t, store.Save())

	require.NoError(t, store.Clear())
	assert.Empty(t, store.History())

	reloaded, err := NewStore(WithPath(path))
	require.NoError(t, err)
	assert.Empty(t, reloaded.History())
}

func TestSaveWithoutPathIsNoop(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	store.Append(testTurn("ephemeral"))
	assert.NoError(t, store.Save())
}

func TestConcurrentAppends(t *testing.T) {
	store, err := NewStore(WithMaxTurns(100))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				store.Append(testTurn(fmt.Sprintf("worker %d turn %d", i, j)))
				_ = store.History()
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.History(), 100)
}

func TestInvalidMaxTurns(t *testing.T) {
	_, err := NewStore(WithMaxTurns(0))
	assert.Error(t, err)
}
