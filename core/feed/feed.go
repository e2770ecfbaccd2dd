// Package feed maintains live, reactive projections of store collections for
// display: a snapshot that tracks the collection through its live query, a
// loading flag that settles once and stays settled, and id joins against
// reference collections that degrade to the raw id instead of failing.
package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/smkpelita/backend/core"
)

type (
	// Snapshot is one emission of a collection projection. IsLoading is true
	// only until the first result (including an empty one) has arrived; it
	// never flips back for the lifetime of the subscription.
	Snapshot[T any] struct {
		Data      []T
		IsLoading bool
	}

	// Collection is the live projection of one store collection.
	Collection[T any] struct {
		collection string
		ord        *core.Ordering
		sub        core.Subscription

		mu      sync.Mutex
		records []map[string]interface{} // store order preserved
		loaded  bool

		updates chan Snapshot[T]
		closed  chan struct{}
		once    sync.Once
	}
)

// Watch opens a live projection: it subscribes first so no change between
// the initial read and the live query is lost, then loads the initial
// snapshot. The caller must Close the collection on teardown.
func Watch[T any](ctx context.Context, store core.DocStore, collection string, ord *core.Ordering) (*Collection[T], error) {
	sub, err := store.Subscribe(ctx, collection)
	if err != nil {
		return nil, err
	}

	c := &Collection[T]{
		collection: collection,
		ord:        ord,
		sub:        sub,
		updates:    make(chan Snapshot[T], 1),
		closed:     make(chan struct{}),
	}

	var initial []map[string]interface{}
	if err = store.List(ctx, collection, ord, &initial); err != nil {
		_ = sub.Close()
		return nil, err
	}

	c.mu.Lock()
	c.records = initial
	c.loaded = true
	c.mu.Unlock()
	c.emit()

	go c.loop()
	return c, nil
}

// Snapshot returns the current projection.
func (c *Collection[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Updates emits a fresh snapshot after every applied change. Slow consumers
// only ever see the latest state; intermediate snapshots are coalesced.
func (c *Collection[T]) Updates() <-chan Snapshot[T] {
	return c.updates
}

// Close cancels the live query. Idempotent.
func (c *Collection[T]) Close() {
	c.once.Do(func() {
		close(c.closed)
		_ = c.sub.Close()
	})
}

func (c *Collection[T]) loop() {
	// loop is the sole sender once Watch returns; closing updates here lets
	// consumers ranging over Updates() terminate on teardown.
	defer close(c.updates)
	for {
		select {
		case <-c.closed:
			return
		case event, ok := <-c.sub.C():
			if !ok {
				return
			}
			c.apply(event)
			c.emit()
		}
	}
}

func (c *Collection[T]) apply(event core.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, rec := range c.records {
		if recordID(rec) == event.ID {
			idx = i
			break
		}
	}

	switch event.Action {
	case core.EventDeleted:
		if idx >= 0 {
			c.records = append(c.records[:idx], c.records[idx+1:]...)
		}
	case core.EventCreated, core.EventUpdated:
		if idx >= 0 {
			c.records[idx] = event.Record
		} else {
			c.records = append(c.records, event.Record)
		}
		c.resortLocked()
	}
}

// resortLocked re-applies the requested store ordering after a change. With
// no ordering requested, arrival order stands.
func (c *Collection[T]) resortLocked() {
	if c.ord == nil {
		return
	}
	field, desc := c.ord.Field, c.ord.Descending
	sort.SliceStable(c.records, func(i, j int) bool {
		less := compareValues(c.records[i][field], c.records[j][field]) < 0
		if desc {
			return !less && compareValues(c.records[i][field], c.records[j][field]) != 0
		}
		return less
	})
}

func (c *Collection[T]) snapshotLocked() Snapshot[T] {
	if !c.loaded {
		return Snapshot[T]{IsLoading: true}
	}
	data := make([]T, 0, len(c.records))
	for _, rec := range c.records {
		var item T
		if err := core.DecodeDocument(rec, &item); err != nil {
			continue // a malformed record never blanks the whole view
		}
		data = append(data, item)
	}
	return Snapshot[T]{Data: data}
}

func (c *Collection[T]) emit() {
	c.mu.Lock()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	// latest-wins: drop the stale pending snapshot if nobody read it yet
	select {
	case c.updates <- snap:
	default:
		select {
		case <-c.updates:
		default:
		}
		select {
		case c.updates <- snap:
		default:
		}
	}
}

func recordID(rec map[string]interface{}) string {
	id, _ := rec["id"].(string)
	return id
}

func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case time.Time:
		bv, _ := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case int:
		bv, _ := b.(int)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	}
	return 0
}
