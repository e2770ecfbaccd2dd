// Package mutate is the optimistic write path for the admin panel. A caller
// submits an operation and returns immediately; the live subscription on the
// target collection is how the UI learns the authoritative result, and the
// notification sink is how it learns about failures.
package mutate

import (
	"context"
	"fmt"
	"sync"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/notify"
)

type (
	OpKind string

	// Op is one fire-and-forget mutation against a single document.
	Op struct {
		Kind       OpKind
		Collection string
		ID         string                 // empty for creates
		Payload    map[string]interface{} // partial for updates: absent fields stay untouched
		// SuccessMsg and FailureMsg are the user-facing outcome texts.
		SuccessMsg string
		FailureMsg string
	}

	Gateway struct {
		store core.DocStore
		sink  *notify.Sink

		wg sync.WaitGroup
	}
)

const (
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
)

func NewGateway(store core.DocStore, sink *notify.Sink) *Gateway {
	return &Gateway{store: store, sink: sink}
}

// Submit dispatches op without blocking and without reporting back to the
// caller; the caller's event handler has already returned by the time the
// store answers. Every op produces exactly one sink outcome. Submitted ops
// are not cancellable; they complete or fail independent of the submitting
// request's lifecycle.
func (g *Gateway) Submit(op Op) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				g.sink.Failure(string(op.Kind), op.Collection, op.ID, op.FailureMsg, fmt.Errorf("panic: %v", r))
			}
		}()
		g.run(op)
	}()
}

// Drain waits for in-flight ops; used on shutdown and in tests.
func (g *Gateway) Drain() {
	g.wg.Wait()
}

func (g *Gateway) run(op Op) {
	ctx := context.Background()

	var err error
	id := op.ID
	switch op.Kind {
	case OpCreate:
		id, err = g.store.Create(ctx, op.Collection, op.Payload)
	case OpUpdate:
		err = g.store.Merge(ctx, op.Collection, op.ID, op.Payload)
	case OpDelete:
		err = g.store.Delete(ctx, op.Collection, op.ID)
	default:
		err = fmt.Errorf("unknown op kind %q", op.Kind)
	}

	if err != nil {
		g.sink.Failure(string(op.Kind), op.Collection, op.ID, op.FailureMsg, err)
		return
	}
	g.sink.Success(string(op.Kind), op.Collection, id, op.SuccessMsg)
}
