package echoapi

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/smkpelita/backend/core"
	"github.com/smkpelita/backend/core/content"
)

// publicAPI serves the marketing site: read-only content, the admission and
// contact forms, and the chatbot widget. No authentication.
type publicAPI struct {
	deps ServerDeps
}

func registerPublicAPI(g *echo.Group, deps ServerDeps) {
	api := publicAPI{deps: deps}

	g.GET("/programs", listOf[content.Program](deps, core.ProgramsCollection, &core.Ordering{Field: "name"}))
	g.GET("/programs/:id", getOf[content.Program](deps, core.ProgramsCollection))
	g.GET("/news", listOf[content.NewsArticle](deps, core.NewsCollection, &core.Ordering{Field: "publishedAt", Descending: true}))
	g.GET("/news/:id", getOf[content.NewsArticle](deps, core.NewsCollection))
	g.GET("/gallery", listOf[content.GalleryAlbum](deps, core.GalleryCollection, &core.Ordering{Field: "name"}))
	g.GET("/gallery/:id", getOf[content.GalleryAlbum](deps, core.GalleryCollection))
	g.GET("/settings", api.settings)

	g.POST("/apply", api.apply)
	g.POST("/contact", api.contact)
	g.POST("/chatbot", api.chatbot)
}

func listOf[T any](deps ServerDeps, collection string, ord *core.Ordering) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var items []T
		if err := deps.Store.List(ctx.Request().Context(), collection, ord, &items); err != nil {
			return errors.Wrapf(err, "listing %s", collection)
		}
		if items == nil {
			items = []T{}
		}
		return ctx.JSON(http.StatusOK, items)
	}
}

func getOf[T any](deps ServerDeps, collection string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var item T
		err := deps.Store.Get(ctx.Request().Context(), collection, ctx.Param("id"), &item)
		if err != nil {
			if errors.Cause(err) == core.ErrDocumentNotFound {
				return errHttpNotFound
			}
			return errors.Wrapf(err, "getting %s", collection)
		}
		return ctx.JSON(http.StatusOK, item)
	}
}

func (api *publicAPI) settings(ctx echo.Context) error {
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

// apply takes an admission application. Unlike admin mutations this write is
// synchronous: the applicant deserves a definite answer, not a 202.
func (api *publicAPI) apply(ctx echo.Context) error {
	var data content.NewApplication
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewApplication")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	id, err := api.deps.Store.Create(ctx.Request().Context(), core.ApplicationsCollection, data.Payload())
	if err != nil {
		return errors.Wrap(err, "creating application")
	}

	api.deps.MailSvc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: data.FirstName + " " + data.LastName, Address: data.Email}},
			Subject: "Pendaftaran Diterima",
			BodyStr: fmt.Sprintf("Halo %s,\n\nPendaftaran Anda telah kami terima dan sedang diproses.", data.FirstName),
		},
		&core.EmailMessage{
			To:      []mail.Address{{Address: api.deps.Conf.ContactEmail}},
			Subject: "New Admission Application",
			BodyStr: fmt.Sprintf("A new application was submitted by %s %s (%s).", data.FirstName, data.LastName, data.Email),
		},
	)
	return ctx.JSON(http.StatusCreated, echo.Map{"id": id, "status": content.StatusPending})
}

func (api *publicAPI) contact(ctx echo.Context) error {
	var data content.NewContactMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewContactMessage")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	id, err := api.deps.Store.Create(ctx.Request().Context(), core.MessagesCollection, data.Payload())
	if err != nil {
		return errors.Wrap(err, "creating contact message")
	}

	api.deps.MailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: api.deps.Conf.ContactEmail}},
		Subject: "New Contact Message: " + data.Subject,
		BodyStr: fmt.Sprintf("From: %s <%s>\n\n%s", data.Name, data.Email, data.Message),
	})
	return ctx.JSON(http.StatusCreated, echo.Map{"id": id})
}

type (
	ChatbotRequest struct {
		Question string `json:"question" validate:"required"`
	}
	ChatbotResponse struct {
		Answer string `json:"answer"`
	}
)

func (api *publicAPI) chatbot(ctx echo.Context) error {
	var data ChatbotRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatbotRequest")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}
	answer := api.deps.Chatbot.Ask(ctx.Request().Context(), data.Question)
	return ctx.JSON(http.StatusOK, ChatbotResponse{Answer: answer})
}
