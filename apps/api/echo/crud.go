package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/content"
	"github.com/smkpelita/backend/core/mutate"
	"github.com/smkpelita/backend/core/rbac"
)

// AcceptedResponse acknowledges a mutation that rides the gateway. The write
// has been dispatched, not confirmed: the authoritative record arrives on the
// feed stream and failures on the notifications stream.
type AcceptedResponse struct {
	Status     string `json:"status"`
	Collection string `json:"collection"`
	ID         string `json:"id,omitempty"`
}

// crudAPI collapses the per-entity admin CRUD pages into one parameterized
// engine: list synchronously, mutate through the gateway.
type crudAPI[T any] struct {
	deps       ServerDeps
	collection string
	label      string // user-facing entity name in outcome messages
	ord        *core.Ordering
	newForm    func() content.Form
	updateForm func() content.Form
}

func registerCRUD[T any](g *echo.Group, path string, api crudAPI[T]) {
	rg := g.Group("/" + path)
	rg.GET("", api.list)
	rg.POST("", api.create)
	rg.PUT("/:id", api.update)
	rg.DELETE("/:id", api.destroy)
}

func (api *crudAPI[T]) list(ctx echo.Context) error {
	var items []T
	if err := api.deps.Store.List(ctx.Request().Context(), api.collection, api.ord, &items); err != nil {
		return errors.Wrapf(err, "listing %s", api.collection)
	}
	if items == nil {
		items = []T{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *crudAPI[T]) create(ctx echo.Context) error {
	form := api.newForm()
	if err := ctx.Bind(form); err != nil {
		return errors.Wrapf(err, "binding %s form", api.collection)
	}
	if err := form.Validate(api.deps.Validate); err != nil {
		return err
	}
	if err := requireDecision(ctx, rbac.EntityTarget(api.collection, ""), rbac.ActionCreate); err != nil {
		return err
	}

	api.deps.Gateway.Submit(mutate.Op{
		Kind:       mutate.OpCreate,
		Collection: api.collection,
		Payload:    form.Payload(),
		SuccessMsg: fmt.Sprintf("%s created.", api.label),
		FailureMsg: fmt.Sprintf("Failed to create %s.", api.label),
	})
	return ctx.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted", Collection: api.collection})
}

func (api *crudAPI[T]) update(ctx echo.Context) error {
	id := ctx.Param("id")
	form := api.updateForm()
	if err := ctx.Bind(form); err != nil {
		return errors.Wrapf(err, "binding %s form", api.collection)
	}
	if err := form.Validate(api.deps.Validate); err != nil {
		return err
	}
	if err := requireDecision(ctx, rbac.EntityTarget(api.collection, id), rbac.ActionEdit); err != nil {
		return err
	}

	api.deps.Gateway.Submit(mutate.Op{
		Kind:       mutate.OpUpdate,
		Collection: api.collection,
		ID:         id,
		Payload:    form.Payload(),
		SuccessMsg: fmt.Sprintf("%s updated.", api.label),
		FailureMsg: fmt.Sprintf("Failed to update %s.", api.label),
	})
	return ctx.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted", Collection: api.collection, ID: id})
}

func (api *crudAPI[T]) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := requireDecision(ctx, rbac.EntityTarget(api.collection, id), rbac.ActionDelete); err != nil {
		return err
	}

	api.deps.Gateway.Submit(mutate.Op{
		Kind:       mutate.OpDelete,
		Collection: api.collection,
		ID:         id,
		SuccessMsg: fmt.Sprintf("%s deleted.", api.label),
		FailureMsg: fmt.Sprintf("Failed to delete %s.", api.label),
	})
	return ctx.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted", Collection: api.collection, ID: id})
}
