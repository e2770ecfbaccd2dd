// Package memdb is an in-memory core.DocStore used by tests and local
// development. It mirrors the document store's observable behavior: opaque
// ids, shallow merge, server-stamped timestamps and live events.
package memdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smkpelita/backend/core"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	subs        map[string][]*subscription
	now         func() time.Time
}

var _ core.DocStore = (*Store)(nil)

func New() *Store {
	return &Store{
		collections: make(map[string]map[string]map[string]interface{}),
		subs:        make(map[string][]*subscription),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetClock pins the store clock, so tests can assert server-stamped fields.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

func (s *Store) Get(ctx context.Context, collection, id string, dst interface{}) error {
	s.mu.RLock()
	doc, ok := s.collections[collection][id]
	if ok {
		doc = cloneDoc(doc)
	}
	s.mu.RUnlock()
	if !ok {
		return core.ErrDocumentNotFound
	}
	return core.DecodeDocument(doc, dst)
}

func (s *Store) List(ctx context.Context, collection string, ord *core.Ordering, dst interface{}) error {
	s.mu.RLock()
	docs := make([]map[string]interface{}, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		docs = append(docs, cloneDoc(doc))
	}
	s.mu.RUnlock()

	if ord != nil && ord.Field != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			less := lessValue(docs[i][ord.Field], docs[j][ord.Field])
			if ord.Descending {
				return !less && !equalValue(docs[i][ord.Field], docs[j][ord.Field])
			}
			return less
		})
	} else {
		// deterministic without an ordering
		sort.SliceStable(docs, func(i, j int) bool {
			return lessValue(docs[i]["id"], docs[j]["id"])
		})
	}
	return core.DecodeDocuments(docs, dst)
}

func (s *Store) Create(ctx context.Context, collection string, doc map[string]interface{}) (string, error) {
	id := uuid.New().String()

	s.mu.Lock()
	stored := cloneDoc(doc)
	stored["id"] = id
	if field, ok := core.ServerTimeFields[collection]; ok {
		stored[field] = s.now()
	}
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]interface{})
	}
	s.collections[collection][id] = stored
	event := core.Event{Action: core.EventCreated, Collection: collection, ID: id, Record: cloneDoc(stored)}
	s.mu.Unlock()

	s.publish(event)
	return id, nil
}

// CreateWithID inserts under a fixed id, as the settings singleton needs.
func (s *Store) CreateWithID(ctx context.Context, collection, id string, doc map[string]interface{}) error {
	s.mu.Lock()
	stored := cloneDoc(doc)
	stored["id"] = id
	if field, ok := core.ServerTimeFields[collection]; ok {
		stored[field] = s.now()
	}
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]interface{})
	}
	s.collections[collection][id] = stored
	event := core.Event{Action: core.EventCreated, Collection: collection, ID: id, Record: cloneDoc(stored)}
	s.mu.Unlock()

	s.publish(event)
	return nil
}

func (s *Store) Merge(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	s.mu.Lock()
	doc, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return core.ErrDocumentNotFound
	}
	for k, v := range patch {
		doc[k] = v
	}
	event := core.Event{Action: core.EventUpdated, Collection: collection, ID: id, Record: cloneDoc(doc)}
	s.mu.Unlock()

	s.publish(event)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	doc, ok := s.collections[collection][id]
	if ok {
		delete(s.collections[collection], id)
	}
	var event core.Event
	if ok {
		event = core.Event{Action: core.EventDeleted, Collection: collection, ID: id, Record: cloneDoc(doc)}
	}
	s.mu.Unlock()

	if ok {
		s.publish(event)
	}
	return nil
}

func (s *Store) Subscribe(ctx context.Context, collection string) (core.Subscription, error) {
	sub := &subscription{
		store:      s,
		collection: collection,
		events:     make(chan core.Event, 64),
	}
	s.mu.Lock()
	s.subs[collection] = append(s.subs[collection], sub)
	s.mu.Unlock()
	return sub, nil
}

func (s *Store) publish(event core.Event) {
	s.mu.RLock()
	subs := append([]*subscription(nil), s.subs[event.Collection]...)
	s.mu.RUnlock()
	for _, sub := range subs {
		sub.send(event)
	}
}

type subscription struct {
	store      *Store
	collection string
	events     chan core.Event
	mu         sync.Mutex
	closed     bool
}

func (sub *subscription) C() <-chan core.Event { return sub.events }

func (sub *subscription) send(event core.Event) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	select {
	case sub.events <- event:
	default: // slow consumer; drop rather than block writers
	}
}

func (sub *subscription) Close() error {
	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return nil
	}
	sub.closed = true
	close(sub.events)
	sub.mu.Unlock()

	s := sub.store
	s.mu.Lock()
	subs := s.subs[sub.collection]
	for i, candidate := range subs {
		if candidate == sub {
			s.subs[sub.collection] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

func cloneDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case map[string]interface{}:
			out[k] = cloneDoc(val)
		case []interface{}:
			items := make([]interface{}, len(val))
			copy(items, val)
			out[k] = items
		case []string:
			items := make([]string, len(val))
			copy(items, val)
			out[k] = items
		default:
			out[k] = v
		}
	}
	return out
}

func lessValue(a, b interface{}) bool {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return av < bv
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Before(bv)
	case float64:
		bv, _ := b.(float64)
		return av < bv
	case int:
		bv, _ := b.(int)
		return av < bv
	}
	return false
}

func equalValue(a, b interface{}) bool {
	return !lessValue(a, b) && !lessValue(b, a)
}
