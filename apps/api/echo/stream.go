package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smkpelita/backend/core"
)

// streamAPI serves the two server-sent-event streams of the admin panel: the
// live collection feed (authoritative reconciliation of optimistic writes)
// and the notifications stream (one outcome per gateway mutation).
type streamAPI struct {
	deps ServerDeps
}

var feedCollections = map[string]struct{}{
	core.UsersCollection:        {},
	core.ProgramsCollection:     {},
	core.NewsCollection:         {},
	core.GalleryCollection:      {},
	core.ApplicationsCollection: {},
	core.StudentsCollection:     {},
	core.MessagesCollection:     {},
	core.SettingsCollection:     {},
}

// sensitiveFeedFields lists document fields that never leave the process on
// the feed stream. Live events carry raw record maps, so the typed models'
// `json:"-"` redactions do not apply here.
var sensitiveFeedFields = map[string][]string{
	core.UsersCollection: {"passwordHash"},
}

// scrubEvent strips a collection's sensitive fields from an event's record
// before it is written to the stream. The record is copied; live events are
// shared with other subscribers.
func scrubEvent(collection string, event core.Event) core.Event {
	fields := sensitiveFeedFields[collection]
	if len(fields) == 0 || event.Record == nil {
		return event
	}
	record := make(map[string]interface{}, len(event.Record))
	for k, v := range event.Record {
		record[k] = v
	}
	for _, field := range fields {
		delete(record, field)
	}
	event.Record = record
	return event
}

func (api *streamAPI) feed(ctx echo.Context) error {
	collection := ctx.QueryParam("collection")
	if _, ok := feedCollections[collection]; !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown collection")
	}

	sub, err := api.deps.Store.Subscribe(ctx.Request().Context(), collection)
	if err != nil {
		return errors.Wrapf(err, "subscribing to %s", collection)
	}
	defer sub.Close()

	flusher, err := sseHeaders(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case event, ok := <-sub.C():
			if !ok {
				return nil
			}
			if err = writeSSE(ctx, flusher, scrubEvent(collection, event)); err != nil {
				return err
			}
		}
	}
}

func (api *streamAPI) notifications(ctx echo.Context) error {
	outcomes, cancel := api.deps.Sink.Subscribe()
	defer cancel()

	flusher, err := sseHeaders(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Request().Context().Done():
			return nil
		case outcome, ok := <-outcomes:
			if !ok {
				return nil
			}
			if err = writeSSE(ctx, flusher, outcome); err != nil {
				return err
			}
		}
	}
}

func sseHeaders(ctx echo.Context) (http.Flusher, error) {
	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "streaming unsupported")
	}
	flusher.Flush()
	return flusher, nil
}

func writeSSE(ctx echo.Context, flusher http.Flusher, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encoding event")
	}
	if _, err = fmt.Fprintf(ctx.Response(), "data: %s\n\n", data); err != nil {
		return errors.Wrap(err, "writing event")
	}
	flusher.Flush()
	return nil
}
