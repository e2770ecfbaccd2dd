package document

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/smkpelita/backend/core"
)

// SurrealStore implements core.DocStore on a SurrealDB connection. All write
// ordering is delegated to the database; the store itself holds no locks
// around document state.
type SurrealStore struct {
	db     *surrealdb.DB
	logger core.Logger
}

var _ core.DocStore = (*SurrealStore)(nil)

// Open connects to the database configured in conf, authenticates as the
// root user and selects the configured namespace/database. It also applies
// the table schema so server-stamped fields default to the database clock.
func Open(ctx context.Context, conf core.Config, logger core.Logger) (*SurrealStore, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, conf.Database.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", conf.Database.URL)
	}
	if err = db.Use(ctx, conf.Database.Namespace, conf.Database.Name); err != nil {
		return nil, errors.Wrap(err, "selecting namespace")
	}

	authData := &surrealdb.Auth{
		Username: conf.Database.User,
		Password: conf.Database.Password,
	}
	token, err := db.SignIn(ctx, authData)
	if err != nil {
		return nil, errors.Wrap(err, "signing in")
	}
	if err = db.Authenticate(ctx, token); err != nil {
		return nil, errors.Wrap(err, "authenticating")
	}

	store := &SurrealStore{db: db, logger: logger}
	if err = store.defineSchema(ctx); err != nil {
		return nil, errors.Wrap(err, "applying schema")
	}
	return store, nil
}

func (s *SurrealStore) Close() error {
	return s.db.Close(context.Background())
}

func (s *SurrealStore) Get(ctx context.Context, collection, id string, dst interface{}) error {
	rid := models.RecordID{Table: collection, ID: id}
	doc, err := surrealdb.Select[map[string]interface{}](ctx, s.db, rid)
	if err != nil {
		return errors.Wrapf(err, "selecting %s:%s", collection, id)
	}
	if doc == nil || len(*doc) == 0 {
		return core.ErrDocumentNotFound
	}
	return core.DecodeDocument(normalizeDoc(*doc), dst)
}

func (s *SurrealStore) List(ctx context.Context, collection string, ord *core.Ordering, dst interface{}) error {
	sql := fmt.Sprintf("SELECT * FROM type::table($tb)%s", orderClause(ord))
	res, err := surrealdb.Query[[]map[string]interface{}](ctx, s.db, sql, map[string]interface{}{"tb": collection})
	if err != nil {
		return errors.Wrapf(err, "listing %s", collection)
	}
	var docs []map[string]interface{}
	if res != nil && len(*res) > 0 {
		docs = (*res)[0].Result
	}
	normalized := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {
		normalized = append(normalized, normalizeDoc(doc))
	}
	return core.DecodeDocuments(normalized, dst)
}

func (s *SurrealStore) Create(ctx context.Context, collection string, doc map[string]interface{}) (string, error) {
	// Server-stamped fields are defaulted by the schema clock; a caller
	// value for them never reaches the database.
	if field, ok := core.ServerTimeFields[collection]; ok {
		delete(doc, field)
	}
	created, err := surrealdb.Create[map[string]interface{}](ctx, s.db, collection, doc)
	if err != nil {
		return "", errors.Wrapf(err, "creating in %s", collection)
	}
	if created == nil {
		return "", errors.Errorf("creating in %s: empty result", collection)
	}
	return recordIDString((*created)["id"]), nil
}

// CreateWithID inserts a document under a caller-chosen id. It backs the
// settings singleton, whose id is fixed rather than generated.
func (s *SurrealStore) CreateWithID(ctx context.Context, collection, id string, doc map[string]interface{}) error {
	rid := models.RecordID{Table: collection, ID: id}
	_, err := surrealdb.Create[map[string]interface{}](ctx, s.db, rid, doc)
	return errors.Wrapf(err, "creating %s:%s", collection, id)
}

func (s *SurrealStore) Merge(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	rid := models.RecordID{Table: collection, ID: id}
	_, err := surrealdb.Merge[map[string]interface{}](ctx, s.db, rid, patch)
	return errors.Wrapf(err, "merging into %s:%s", collection, id)
}

func (s *SurrealStore) Delete(ctx context.Context, collection, id string) error {
	rid := models.RecordID{Table: collection, ID: id}
	_, err := surrealdb.Delete[map[string]interface{}](ctx, s.db, rid)
	return errors.Wrapf(err, "deleting %s:%s", collection, id)
}

func (s *SurrealStore) Subscribe(ctx context.Context, collection string) (core.Subscription, error) {
	liveID, err := surrealdb.Live(ctx, s.db, models.Table(collection), false)
	if err != nil {
		return nil, errors.Wrapf(err, "starting live query on %s", collection)
	}
	notifications, err := s.db.LiveNotifications(liveID.String())
	if err != nil {
		_ = surrealdb.Kill(ctx, s.db, liveID.String())
		return nil, errors.Wrapf(err, "opening notifications for %s", collection)
	}

	sub := &liveSubscription{
		store:      s,
		collection: collection,
		liveID:     liveID.String(),
		events:     make(chan core.Event),
		done:       make(chan struct{}),
	}
	go sub.pump(notifications)
	return sub, nil
}

type liveSubscription struct {
	store      *SurrealStore
	collection string
	liveID     string
	events     chan core.Event
	done       chan struct{}
	closeOnce  sync.Once
}

func (sub *liveSubscription) C() <-chan core.Event { return sub.events }

func (sub *liveSubscription) Close() error {
	var err error
	sub.closeOnce.Do(func() {
		close(sub.done)
		err = surrealdb.Kill(context.Background(), sub.store.db, sub.liveID)
	})
	return err
}

func (sub *liveSubscription) pump(notifications <-chan connection.Notification) {
	defer close(sub.events)
	for {
		select {
		case <-sub.done:
			return
		case notification, ok := <-notifications:
			if !ok {
				return
			}
			evt, ok := sub.store.translate(sub.collection, notification)
			if !ok {
				continue
			}
			select {
			case sub.events <- evt:
			case <-sub.done:
				return
			}
		}
	}
}

func (s *SurrealStore) translate(collection string, notification connection.Notification) (core.Event, bool) {
	record, ok := notification.Result.(map[string]interface{})
	if !ok {
		s.logger.Warn("live notification with unexpected payload",
			"collection", collection, "type", fmt.Sprintf("%T", notification.Result))
		return core.Event{}, false
	}
	record = normalizeDoc(record)
	id, _ := record["id"].(string)

	var action core.EventAction
	switch notification.Action {
	case connection.CreateAction:
		action = core.EventCreated
	case connection.UpdateAction:
		action = core.EventUpdated
	case connection.DeleteAction:
		action = core.EventDeleted
	default:
		return core.Event{}, false
	}
	return core.Event{Action: action, Collection: collection, ID: id, Record: record}, true
}

func orderClause(ord *core.Ordering) string {
	if ord == nil || ord.Field == "" {
		return ""
	}
	dir := "ASC"
	if ord.Descending {
		dir = "DESC"
	}
	// Field names come from compiled-in collection metadata, never from
	// request input; quoting is still applied.
	return fmt.Sprintf(" ORDER BY `%s` %s", strings.ReplaceAll(ord.Field, "`", ""), dir)
}

// normalizeDoc rewrites database-native values into the plain forms the
// decode layer understands: record ids become strings, datetimes become
// time.Time. Nested maps and arrays are walked.
func normalizeDoc(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case models.RecordID:
		return fmt.Sprintf("%v", val.ID)
	case *models.RecordID:
		if val == nil {
			return nil
		}
		return fmt.Sprintf("%v", val.ID)
	case models.CustomDateTime:
		return val.Time
	case *models.CustomDateTime:
		if val == nil {
			return nil
		}
		return val.Time
	case map[string]interface{}:
		return normalizeDoc(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func recordIDString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case models.RecordID:
		return fmt.Sprintf("%v", val.ID)
	case *models.RecordID:
		if val != nil {
			return fmt.Sprintf("%v", val.ID)
		}
	}
	return ""
}
