package routes

import (
	"net/http"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/cubeql/internal/server/middleware"
)

func SelectCubeHandler(c echo.Context) error {
	type selectCubeParams struct {
		Question string `json:"question" validate:"required"`
	}

	params := new(selectCubeParams)
	if err := c.Bind(params); err != nil {
		return invalidParams(c)
	}
	if err := c.Validate(params); err != nil {
		return invalidParams(c)
	}

	ctx := c.Request().Context()
	p := c.(*middleware.AppContext).App.Pipeline

	cube, err := p.SelectCube(ctx, params.Question)
	if err != nil {
		return pipelineError(c, "select_cube", err)
	}

	return c.JSON(http.StatusOK, resultResponse{Result: cube})
}
