package core

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is returned by DocStore.Get for a missing record.
var ErrDocumentNotFound = errors.New("document not found")

type (
	// DocStore is the document store collaborator: named collections of
	// schemaless documents addressed by opaque string ids, with live queries.
	// The store is the single arbiter of write ordering; callers take no
	// in-process locks.
	DocStore interface {
		// Get decodes the document with the given id into dst.
		Get(ctx context.Context, collection, id string, dst interface{}) error
		// List decodes all documents of a collection into dst (a *[]T),
		// ordered per ord when given. The store's ordering is authoritative.
		List(ctx context.Context, collection string, ord *Ordering, dst interface{}) error
		// Create inserts a new document and returns its id. Fields registered
		// in ServerTimeFields are stamped by the store's clock, not the caller's.
		Create(ctx context.Context, collection string, doc map[string]interface{}) (string, error)
		// Merge shallow-merges patch into an existing document. Fields absent
		// from patch are left untouched.
		Merge(ctx context.Context, collection, id string, patch map[string]interface{}) error
		// Delete removes a document. Deleting a missing document is not an error.
		Delete(ctx context.Context, collection, id string) error
		// Subscribe opens a live query on a collection. The subscription's
		// channel closes when it is Closed or the store shuts down.
		Subscribe(ctx context.Context, collection string) (Subscription, error)
	}

	Ordering struct {
		Field      string
		Descending bool
	}

	// EventAction is the kind of change carried by a live-query notification.
	EventAction string

	// Event is one change pushed by a live query. Record holds the full
	// document after the change (the id under "id"); for deletes it holds the
	// document as it was.
	Event struct {
		Action     EventAction            `json:"action"`
		Collection string                 `json:"collection"`
		ID         string                 `json:"id"`
		Record     map[string]interface{} `json:"record,omitempty"`
	}

	Subscription interface {
		C() <-chan Event
		Close() error
	}
)

const (
	EventCreated EventAction = "CREATE"
	EventUpdated EventAction = "UPDATE"
	EventDeleted EventAction = "DELETE"
)
