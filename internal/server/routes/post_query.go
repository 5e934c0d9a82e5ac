package routes

import (
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/cubeql/internal/server/middleware"
)

func GenerateQueryHandler(c echo.Context) error {
	type generateQueryParams struct {
		Question string `json:"question" validate:"required"`
		Cube     string `json:"cube" validate:"required"`
	}

	params := new(generateQueryParams)
	if err := c.Bind(params); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(params); err != nil {
		return invalidParams(c)
	}

	ctx := c.Request().Context()
	p := c.(*middleware.AppContext).App.Pipeline

	query, err := p.GenerateQuery(ctx, params.Question, params.Cube)
	if err != nil {
		return pipelineError(c, "generate_query", err)
	}

	return c.JSON(http.StatusOK, resultResponse{Result: query})
}
