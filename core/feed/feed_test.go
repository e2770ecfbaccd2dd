package feed

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/storage/memdb"
)

type program struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

func createProgram(t *testing.T, store *memdb.Store, name string) string {
	t.Helper()
	id, err := store.Create(context.Background(), core.ProgramsCollection, map[string]interface{}{"name": name})
	require.NoError(t, err)
	return id
}

// waitForSnapshot reads updates until cond holds or the deadline passes.
func waitForSnapshot(t *testing.T, col *Collection[program], cond func(Snapshot[program]) bool) Snapshot[program] {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-col.Updates():
			if cond(snap) {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for snapshot")
		}
	}
}

func TestWatchLoadsInitialSnapshot(t *testing.T) {
	store := memdb.New()
	createProgram(t, store, "Akuntansi")
	createProgram(t, store, "Teknik Mesin")

	col, err := Watch[program](context.Background(), store, core.ProgramsCollection, &core.Ordering{Field: "name"})
	require.NoError(t, err)
	defer col.Close()

	snap := col.Snapshot()
	assert.False(t, snap.IsLoading)
	require.Len(t, snap.Data, 2)
	assert.Equal(t, "Akuntansi", snap.Data[0].Name)
	assert.Equal(t, "Teknik Mesin", snap.Data[1].Name)
}

func TestWatchEmptyCollectionSettlesLoading(t *testing.T) {
	store := memdb.New()

	col, err := Watch[program](context.Background(), store, core.ProgramsCollection, nil)
	require.NoError(t, err)
	defer col.Close()

	// an empty first result still settles the loading flag
	snap := col.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.Data)
}

func TestWatchAppliesLiveChanges(t *testing.T) {
	store := memdb.New()
	col, err := Watch[program](context.Background(), store, core.ProgramsCollection, &core.Ordering{Field: "name"})
	require.NoError(t, err)
	defer col.Close()

	<-col.Updates() // initial emission

	id := createProgram(t, store, "Multimedia")
	snap := waitForSnapshot(t, col, func(s Snapshot[program]) bool { return len(s.Data) == 1 })
	assert.Equal(t, "Multimedia", snap.Data[0].Name)

	require.NoError(t, store.Merge(context.Background(), core.ProgramsCollection, id,
		map[string]interface{}{"name": "Multimedia Kreatif"}))
	snap = waitForSnapshot(t, col, func(s Snapshot[program]) bool {
		return len(s.Data) == 1 && s.Data[0].Name == "Multimedia Kreatif"
	})
	assert.Equal(t, id, snap.Data[0].ID)

	require.NoError(t, store.Delete(context.Background(), core.ProgramsCollection, id))
	waitForSnapshot(t, col, func(s Snapshot[program]) bool { return len(s.Data) == 0 })
}

func TestWatchKeepsOrderingAcrossChanges(t *testing.T) {
	store := memdb.New()
	createProgram(t, store, "Pemasaran")

	col, err := Watch[program](context.Background(), store, core.ProgramsCollection, &core.Ordering{Field: "name"})
	require.NoError(t, err)
	defer col.Close()

	createProgram(t, store, "Akuntansi")
	snap := waitForSnapshot(t, col, func(s Snapshot[program]) bool { return len(s.Data) == 2 })
	assert.Equal(t, "Akuntansi", snap.Data[0].Name)
	assert.Equal(t, "Pemasaran", snap.Data[1].Name)
}

func TestUpdatesCoalesceToLatest(t *testing.T) {
	store := memdb.New()
	col, err := Watch[program](context.Background(), store, core.ProgramsCollection, nil)
	require.NoError(t, err)
	defer col.Close()

	// nobody reads while a burst of changes lands
	for i := 0; i < 5; i++ {
		createProgram(t, store, "P")
	}

	// a late reader sees the latest state, not a replay of intermediates
	waitForSnapshot(t, col, func(s Snapshot[program]) bool { return len(s.Data) == 5 })
}

func TestLookupResolvesAndDegrades(t *testing.T) {
	store := memdb.New()
	id := createProgram(t, store, "Teknik Komputer dan Jaringan")

	lookup, err := NewLookup(context.Background(), store, core.ProgramsCollection)
	require.NoError(t, err)
	defer lookup.Close()

	assert.True(t, lookup.Ready())
	assert.Equal(t, "Teknik Komputer dan Jaringan", lookup.Resolve(id))

	// dangling references degrade to the raw id, never blank
	assert.Equal(t, "programs:gone", lookup.Resolve("programs:gone"))
}

func TestLookupCloseReleasesGoroutines(t *testing.T) {
	store := memdb.New()
	before := runtime.NumGoroutine()

	for i := 0; i < 50; i++ {
		lookup, err := NewLookup(context.Background(), store, core.ProgramsCollection)
		require.NoError(t, err)
		lookup.Close()
	}

	// the rebuild goroutines must all have terminated
	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > before {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines leaked after close: before=%d after=%d", before, runtime.NumGoroutine())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestLookupTracksLiveChanges(t *testing.T) {
	store := memdb.New()
	lookup, err := NewLookup(context.Background(), store, core.ProgramsCollection)
	require.NoError(t, err)
	defer lookup.Close()

	id := createProgram(t, store, "Perhotelan")

	deadline := time.Now().Add(2 * time.Second)
	for lookup.Resolve(id) != "Perhotelan" {
		if time.Now().After(deadline) {
			t.Fatal("lookup never picked up the new program")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
