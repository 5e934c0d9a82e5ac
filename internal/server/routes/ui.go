package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/cubeql/internal/server/middleware"
	"github.com/OFFIS-RIT/cubeql/pkg/cube"
	"github.com/OFFIS-RIT/cubeql/pkg/logger"
	"github.com/OFFIS-RIT/cubeql/pkg/pipeline"
)

// FormPage is the data behind the index.html template.
type FormPage struct {
	Question string
	Cube     string
	Query    string
	Error    string
}

const formTemplate = "index.html"

func GetFormHandler(c echo.Context) error {
	return c.Render(http.StatusOK, formTemplate, FormPage{})
}

func PostFormHandler(c echo.Context) error {
	question := c.FormValue("question")
	page := FormPage{Question: question}
	if question == "" {
		page.Error = "Please enter a question."
		return c.Render(http.StatusBadRequest, formTemplate, page)
	}

	ctx := c.Request().Context()
	p := c.(*middleware.AppContext).App.Pipeline

	res, err := p.SelectAndGenerate(ctx, question)
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, pipeline.ErrNoCubeSelected) {
			page.Error = err.Error()
		} else {
			logger.Error("Form request failed", "err", err)
			page.Error = "The query could not be generated. Please try again later."
		}
		return c.Render(status, formTemplate, page)
	}

	page.Cube = cube.TrimBrackets(res.Cube)
	page.Query = res.Query
	return c.Render(http.StatusOK, formTemplate, page)
}
