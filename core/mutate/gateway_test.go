package mutate

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/notify"
	"github.com/smkpelita/backend/storage/memdb"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type explodingStore struct {
	core.DocStore
	createErr error
	mergeErr  error
	panics    bool
}

func (s *explodingStore) Create(ctx context.Context, collection string, doc map[string]interface{}) (string, error) {
	if s.panics {
		panic("store went away")
	}
	if s.createErr != nil {
		return "", s.createErr
	}
	return s.DocStore.Create(ctx, collection, doc)
}

func (s *explodingStore) Merge(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	if s.mergeErr != nil {
		return s.mergeErr
	}
	return s.DocStore.Merge(ctx, collection, id, patch)
}

func drain(ch <-chan notify.Outcome) []notify.Outcome {
	var out []notify.Outcome
	for {
		select {
		case o := <-ch:
			out = append(out, o)
		default:
			return out
		}
	}
}

func TestSubmitCreate(t *testing.T) {
	store := memdb.New()
	sink := notify.NewSink(nopLogger{})
	gw := NewGateway(store, sink)

	ch, cancel := sink.Subscribe()
	defer cancel()

	gw.Submit(Op{
		Kind:       OpCreate,
		Collection: core.ProgramsCollection,
		Payload:    map[string]interface{}{"name": "Teknik Mesin"},
		SuccessMsg: "Program created.",
		FailureMsg: "Failed to create Program.",
	})
	gw.Drain()

	outcomes := drain(ch)
	require.Len(t, outcomes, 1)
	assert.Equal(t, notify.KindSuccess, outcomes[0].Kind)
	assert.Equal(t, "Program created.", outcomes[0].Message)
	assert.NotEmpty(t, outcomes[0].ID) // the minted id rides the outcome

	var programs []map[string]interface{}
	require.NoError(t, store.List(context.Background(), core.ProgramsCollection, nil, &programs))
	assert.Len(t, programs, 1)
}

func TestSubmitUpdateAndDelete(t *testing.T) {
	store := memdb.New()
	id, err := store.Create(context.Background(), core.ProgramsCollection, map[string]interface{}{
		"name": "Akuntansi", "icon": "Calculator",
	})
	require.NoError(t, err)

	sink := notify.NewSink(nopLogger{})
	gw := NewGateway(store, sink)
	ch, cancel := sink.Subscribe()
	defer cancel()

	gw.Submit(Op{
		Kind:       OpUpdate,
		Collection: core.ProgramsCollection,
		ID:         id,
		Payload:    map[string]interface{}{"name": "Akuntansi Keuangan"},
		SuccessMsg: "Program updated.",
		FailureMsg: "Failed to update Program.",
	})
	gw.Drain()

	var prog map[string]interface{}
	require.NoError(t, store.Get(context.Background(), core.ProgramsCollection, id, &prog))
	assert.Equal(t, "Akuntansi Keuangan", prog["name"])
	assert.Equal(t, "Calculator", prog["icon"]) // untouched by the partial payload

	gw.Submit(Op{
		Kind:       OpDelete,
		Collection: core.ProgramsCollection,
		ID:         id,
		SuccessMsg: "Program deleted.",
		FailureMsg: "Failed to delete Program.",
	})
	gw.Drain()

	err = store.Get(context.Background(), core.ProgramsCollection, id, &prog)
	assert.ErrorIs(t, err, core.ErrDocumentNotFound)

	outcomes := drain(ch)
	require.Len(t, outcomes, 2)
	assert.Equal(t, notify.KindSuccess, outcomes[0].Kind)
	assert.Equal(t, notify.KindSuccess, outcomes[1].Kind)
}

func TestResubmittedUpdateIsIdempotent(t *testing.T) {
	store := memdb.New()
	id, err := store.Create(context.Background(), core.ProgramsCollection, map[string]interface{}{
		"name": "Akuntansi", "icon": "Calculator",
	})
	require.NoError(t, err)

	sink := notify.NewSink(nopLogger{})
	gw := NewGateway(store, sink)
	ch, cancel := sink.Subscribe()
	defer cancel()

	op := Op{
		Kind:       OpUpdate,
		Collection: core.ProgramsCollection,
		ID:         id,
		Payload:    map[string]interface{}{"name": "Akuntansi Keuangan"},
		SuccessMsg: "Program updated.",
		FailureMsg: "Failed to update Program.",
	}
	gw.Submit(op)
	gw.Drain()

	var once map[string]interface{}
	require.NoError(t, store.Get(context.Background(), core.ProgramsCollection, id, &once))

	// replaying the identical update lands on the same final state
	gw.Submit(op)
	gw.Drain()

	var twice map[string]interface{}
	require.NoError(t, store.Get(context.Background(), core.ProgramsCollection, id, &twice))
	assert.Equal(t, once, twice)
	assert.Equal(t, "Akuntansi Keuangan", twice["name"])
	assert.Equal(t, "Calculator", twice["icon"])

	// each submission still yields its own outcome
	outcomes := drain(ch)
	require.Len(t, outcomes, 2)
	for _, out := range outcomes {
		assert.Equal(t, notify.KindSuccess, out.Kind)
	}
}

func TestFailedOpProducesExactlyOneFailure(t *testing.T) {
	store := &explodingStore{DocStore: memdb.New(), createErr: errors.New("write refused")}
	sink := notify.NewSink(nopLogger{})
	gw := NewGateway(store, sink)

	ch, cancel := sink.Subscribe()
	defer cancel()

	gw.Submit(Op{
		Kind:       OpCreate,
		Collection: core.NewsCollection,
		Payload:    map[string]interface{}{"title": "t"},
		SuccessMsg: "Article created.",
		FailureMsg: "Failed to create Article.",
	})
	gw.Drain()

	outcomes := drain(ch)
	require.Len(t, outcomes, 1)
	assert.Equal(t, notify.KindFailure, outcomes[0].Kind)
	assert.Equal(t, "Failed to create Article.", outcomes[0].Message)
}

func TestPanicProducesFailureOutcome(t *testing.T) {
	store := &explodingStore{DocStore: memdb.New(), panics: true}
	sink := notify.NewSink(nopLogger{})
	gw := NewGateway(store, sink)

	ch, cancel := sink.Subscribe()
	defer cancel()

	gw.Submit(Op{
		Kind:       OpCreate,
		Collection: core.NewsCollection,
		Payload:    map[string]interface{}{"title": "t"},
		FailureMsg: "Failed to create Article.",
	})
	gw.Drain()

	outcomes := drain(ch)
	require.Len(t, outcomes, 1)
	assert.Equal(t, notify.KindFailure, outcomes[0].Kind)
}

func TestUnknownOpKind(t *testing.T) {
	sink := notify.NewSink(nopLogger{})
	gw := NewGateway(memdb.New(), sink)

	ch, cancel := sink.Subscribe()
	defer cancel()

	gw.Submit(Op{Kind: OpKind("merge"), Collection: core.NewsCollection, FailureMsg: "Failed."})
	gw.Drain()

	outcomes := drain(ch)
	require.Len(t, outcomes, 1)
	assert.Equal(t, notify.KindFailure, outcomes[0].Kind)
}
