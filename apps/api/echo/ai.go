package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var errContentGeneration = echo.NewHTTPError(http.StatusBadGateway, "content generation failed, please try again")

type aiAPI struct {
	deps ServerDeps
}

type GenerateContentRequest struct {
	Prompt string `json:"prompt" validate:"required,min=5"`
}

// generateContent asks the AI collaborator for a structured draft. Provider
// failures surface as one user-facing error, never a raw stack.
func (api *aiAPI) generateContent(ctx echo.Context) error {
	var data GenerateContentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateContentRequest")
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	generated, err := api.deps.AISvc.GenerateContent(ctx.Request().Context(), data.Prompt)
	if err != nil {
		api.deps.Logger.Error("generating content", err)
		return errContentGeneration
	}
	return ctx.JSON(http.StatusOK, generated)
}
