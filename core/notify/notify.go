// Package notify is the two-channel outcome sink: one short human-readable
// message per mutation outcome for the user, and full-context diagnostics
// for the developer error service. The two channels never mix.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/smkpelita/backend/core"
)

type (
	Kind string

	// Outcome is the user-facing result of one mutation. Exactly one Outcome
	// is published per mutation; a failure reads as a failure, never as a
	// network hiccup dressed up as success.
	Outcome struct {
		Kind       Kind      `json:"kind"`
		Message    string    `json:"message"`
		Operation  string    `json:"operation"`
		Collection string    `json:"collection"`
		ID         string    `json:"id,omitempty"`
		At         time.Time `json:"at"`
	}

	Sink struct {
		logger core.Logger
		now    func() time.Time

		mu   sync.Mutex
		subs map[chan Outcome]struct{}
	}
)

const (
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

func NewSink(logger core.Logger) *Sink {
	return &Sink{
		logger: logger,
		now:    time.Now,
		subs:   make(map[chan Outcome]struct{}),
	}
}

// Success publishes the single user-facing confirmation for a completed
// mutation. No developer diagnostic is produced.
func (s *Sink) Success(operation, collection, id, message string) {
	s.publish(Outcome{
		Kind:       KindSuccess,
		Message:    message,
		Operation:  operation,
		Collection: collection,
		ID:         id,
		At:         s.now().UTC(),
	})
}

// Failure publishes the single user-facing failure message and, separately,
// one developer diagnostic with the underlying cause. The cause never leaks
// into the user message.
func (s *Sink) Failure(operation, collection, id, message string, cause error) {
	s.publish(Outcome{
		Kind:       KindFailure,
		Message:    message,
		Operation:  operation,
		Collection: collection,
		ID:         id,
		At:         s.now().UTC(),
	})
	s.logger.Error(
		fmt.Sprintf("mutation failed: %s %s/%s: %v", operation, collection, id, cause),
		cause,
		map[string]interface{}{"operation": operation, "collection": collection, "id": id},
	)
}

// Subscribe returns a channel of outcomes. Slow consumers lose old outcomes
// rather than blocking publishers.
func (s *Sink) Subscribe() (<-chan Outcome, func()) {
	ch := make(chan Outcome, 16)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Sink) publish(out Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- out:
		default:
			// drop oldest, keep the stream moving
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- out:
			default:
			}
		}
	}
}
