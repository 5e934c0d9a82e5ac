package routes

import (
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/cubeql/internal/server/middleware"
)

// SelectAndGenerateHandler runs both stages. Only the query is returned.
func SelectAndGenerateHandler(c echo.Context) error {
	type selectAndGenerateParams struct {
		Question string `json:"question" validate:"required"`
	}

	params := new(selectAndGenerateParams)
	if err := c.Bind(params); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(params); err != nil {
		return invalidParams(c)
	}

	ctx := c.Request().Context()
	p := c.(*middleware.AppContext).App.Pipeline

	res, err := p.SelectAndGenerate(ctx, params.Question)
	if err != nil {
		return pipelineError(c, "select_and_generate", err)
	}

	return c.JSON(http.StatusOK, resultResponse{Result: res.Query})
}
