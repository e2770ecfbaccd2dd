package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/content"
	"github.com/smkpelita/backend/core/feed"
	"github.com/smkpelita/backend/core/mutate"
	"github.com/smkpelita/backend/core/rbac"
)

func registerAdminAPI(g *echo.Group, deps ServerDeps, programLookup *feed.Lookup) {
	registerCRUD[content.Program](g, "programs", crudAPI[content.Program]{
		deps:       deps,
		collection: core.ProgramsCollection,
		label:      "Program",
		ord:        &core.Ordering{Field: "name"},
		newForm:    func() content.Form { return new(content.NewProgram) },
		updateForm: func() content.Form { return new(content.UpdateProgram) },
	})
	registerCRUD[content.NewsArticle](g, "news", crudAPI[content.NewsArticle]{
		deps:       deps,
		collection: core.NewsCollection,
		label:      "Article",
		ord:        &core.Ordering{Field: "publishedAt", Descending: true},
		newForm:    func() content.Form { return new(content.NewNewsArticle) },
		updateForm: func() content.Form { return new(content.UpdateNewsArticle) },
	})
	registerCRUD[content.GalleryAlbum](g, "gallery", crudAPI[content.GalleryAlbum]{
		deps:       deps,
		collection: core.GalleryCollection,
		label:      "Album",
		ord:        &core.Ordering{Field: "name"},
		newForm:    func() content.Form { return new(content.NewGalleryAlbum) },
		updateForm: func() content.Form { return new(content.UpdateGalleryAlbum) },
	})
	registerCRUD[content.Student](g, "students", crudAPI[content.Student]{
		deps:       deps,
		collection: core.StudentsCollection,
		label:      "Student",
		ord:        &core.Ordering{Field: "firstName"},
		newForm:    func() content.Form { return new(content.NewStudent) },
		updateForm: func() content.Form { return new(content.UpdateStudent) },
	})

	applications := applicationAPI{deps: deps, programs: programLookup}
	ag := g.Group("/applications")
	ag.GET("", applications.list)
	ag.PUT("/:id/status", applications.changeStatus)
	ag.DELETE("/:id", applications.destroy)

	messages := messageAPI{deps: deps}
	mg := g.Group("/messages")
	mg.GET("", messages.list)
	mg.PUT("/:id/read", messages.markRead)
	mg.DELETE("/:id", messages.destroy)

	settings := settingsAPI{deps: deps}
	g.GET("/settings", settings.retrieve)
	g.PUT("/settings", settings.update)

	ai := aiAPI{deps: deps}
	g.POST("/ai/content", ai.generateContent)

	stream := streamAPI{deps: deps}
	g.GET("/feed", stream.feed)
	g.GET("/notifications", stream.notifications)
}

// applicationAPI manages admission applications. Status moves only through
// the explicit status action; general edit is not offered.
type applicationAPI struct {
	deps     ServerDeps
	programs *feed.Lookup
}

// ApplicationRow is an application joined with its program's display name.
type ApplicationRow struct {
	content.Application
	ProgramName string `json:"programName"`
}

func (api *applicationAPI) list(ctx echo.Context) error {
	var apps []content.Application
	ord := &core.Ordering{Field: "applicationDate", Descending: true}
	if err := api.deps.Store.List(ctx.Request().Context(), core.ApplicationsCollection, ord, &apps); err != nil {
		return errors.Wrap(err, "listing applications")
	}

	rows := make([]ApplicationRow, 0, len(apps))
	for _, app := range apps {
		name := app.ProgramID // dangling reference renders the raw id
		if api.programs != nil {
			name = api.programs.Resolve(app.ProgramID)
		}
		rows = append(rows, ApplicationRow{Application: app, ProgramName: name})
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *applicationAPI) changeStatus(ctx echo.Context) error {
	id := ctx.Param("id")
	var data content.ChangeApplicationStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeApplicationStatus")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	if err := requireDecision(ctx, rbac.EntityTarget(core.ApplicationsCollection, id), rbac.ActionChangeStatus); err != nil {
		return err
	}

	api.deps.Gateway.Submit(mutate.Op{
		Kind:       mutate.OpUpdate,
		Collection: core.ApplicationsCollection,
		ID:         id,
		Payload:    data.Payload(),
		SuccessMsg: "Application status updated.",
		FailureMsg: "Failed to update application status.",
	})
	return ctx.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted", Collection: core.ApplicationsCollection, ID: id})
}

func (api *applicationAPI) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := requireDecision(ctx, rbac.EntityTarget(core.ApplicationsCollection, id), rbac.ActionDelete); err != nil {
		return err
	}
	api.deps.Gateway.Submit(mutate.Op{
		Kind:       mutate.OpDelete,
		Collection: core.ApplicationsCollection,
		ID:         id,
		SuccessMsg: "Application deleted.",
		FailureMsg: "Failed to delete application.",
	})
	return ctx.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted", Collection: core.ApplicationsCollection, ID: id})
}

type messageAPI struct {
	deps ServerDeps
}

func (api *messageAPI) list(ctx echo.Context) error {
	var msgs []content.ContactMessage
	ord := &core.Ordering{Field: "receivedAt", Descending: true}
	if err := api.deps.Store.List(ctx.Request().Context(), core.MessagesCollection, ord, &msgs); err != nil {
		return errors.Wrap(err, "listing messages")
	}
	if msgs == nil {
		msgs = []content.ContactMessage{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

func (api *messageAPI) markRead(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := requireDecision(ctx, rbac.EntityTarget(core.MessagesCollection, id), rbac.ActionEdit); err != nil {
		return err
	}
	api.deps.Gateway.Submit(mutate.Op{
		Kind:       mutate.OpUpdate,
		Collection: core.MessagesCollection,
		ID:         id,
		Payload:    map[string]interface{}{"read": true},
		SuccessMsg: "Message marked as read.",
		FailureMsg: "Failed to mark message as read.",
	})
	return ctx.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted", Collection: core.MessagesCollection, ID: id})
}

func (api *messageAPI) destroy(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := requireDecision(ctx, rbac.EntityTarget(core.MessagesCollection, id), rbac.ActionDelete); err != nil {
		return err
	}
	api.deps.Gateway.Submit(mutate.Op{
		Kind:       mutate.OpDelete,
		Collection: core.MessagesCollection,
		ID:         id,
		SuccessMsg: "Message deleted.",
		FailureMsg: "Failed to delete message.",
	})
	return ctx.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted", Collection: core.MessagesCollection, ID: id})
}

// settingsAPI merges into the settings singleton. Each admin tab saves only
// its own fields; the merge leaves the rest of the document alone.
type settingsAPI struct {
	deps ServerDeps
}

func (api *settingsAPI) retrieve(ctx echo.Context) error {
	var settings content.SiteSettings
	err := api.deps.Store.Get(ctx.Request().Context(), core.SettingsCollection, core.SiteSettingsID, &settings)
	if err != nil {
		if errors.Cause(err) == core.ErrDocumentNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting site settings")
	}
	return ctx.JSON(http.StatusOK, settings)
}

func (api *settingsAPI) update(ctx echo.Context) error {
	var data content.UpdateSiteSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSiteSettings")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	if err := requireDecision(ctx, rbac.EntityTarget(core.SettingsCollection, core.SiteSettingsID), rbac.ActionEdit); err != nil {
		return err
	}

	api.deps.Gateway.Submit(mutate.Op{
		Kind:       mutate.OpUpdate,
		Collection: core.SettingsCollection,
		ID:         core.SiteSettingsID,
		Payload:    data.Payload(),
		SuccessMsg: "Settings saved.",
		FailureMsg: "Failed to save settings.",
	})
	return ctx.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted", Collection: core.SettingsCollection, ID: core.SiteSettingsID})
}
