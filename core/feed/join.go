package feed

import (
	"context"
	"sync"

	"github.com/smkpelita/backend/core"
)

// Lookup resolves ids against a reference collection (e.g. programId to the
// program's name). It rides its own live projection and rebuilds the lookup
// map only when the underlying snapshot changes, not per resolve.
type Lookup struct {
	col   *Collection[referenced]
	field string

	mu   sync.Mutex
	byID map[string]string
}

type referenced struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// NewLookup watches collection and maps document ids to their "name" field.
func NewLookup(ctx context.Context, store core.DocStore, collection string) (*Lookup, error) {
	col, err := Watch[referenced](ctx, store, collection, nil)
	if err != nil {
		return nil, err
	}
	l := &Lookup{col: col}
	l.rebuild(col.Snapshot())

	go func() {
		for snap := range col.Updates() {
			l.rebuild(snap)
		}
	}()
	return l, nil
}

// Resolve returns the display name for id. A dangling reference degrades to
// the raw id; it never errors and never returns blank for a non-blank id.
func (l *Lookup) Resolve(id string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if name, ok := l.byID[id]; ok && name != "" {
		return name
	}
	return id
}

// Ready reports whether the reference collection has loaded at least once.
func (l *Lookup) Ready() bool {
	return !l.col.Snapshot().IsLoading
}

func (l *Lookup) Close() {
	l.col.Close()
}

func (l *Lookup) rebuild(snap Snapshot[referenced]) {
	if snap.IsLoading {
		return
	}
	byID := make(map[string]string, len(snap.Data))
	for _, ref := range snap.Data {
		byID[ref.ID] = ref.Name
	}
	l.mu.Lock()
	l.byID = byID
	l.mu.Unlock()
}
