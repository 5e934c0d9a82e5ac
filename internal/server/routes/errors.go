package routes

import (
	"errors"
	"net/http"

	"github.com/OFFIS-RIT/cubeql/pkg/logger"
	"github.com/OFFIS-RIT/cubeql/pkg/pipeline"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type resultResponse struct {
	Result string `json:"result"`
}

func invalidParams(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Detail: "Invalid request params"})
}

// statusFor maps a pipeline error to the HTTP status it is reported with.
func statusFor(err error) int {
	var ue *pipeline.UpstreamError
	switch {
	case errors.Is(err, pipeline.ErrNoCubeSelected):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrEmptyQuestion), errors.Is(err, pipeline.ErrEmptyCube):
		return http.StatusBadRequest
	case errors.As(err, &ue):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func pipelineError(c echo.Context, op string, err error) error {
	status := statusFor(err)
	switch status {
	case http.StatusNotFound, http.StatusBadRequest:
		logger.Warn("Pipeline rejected request", "op", op, "err", err)
		return c.JSON(status, errorResponse{Detail: err.Error()})
	case http.StatusBadGateway:
		logger.Error("Upstream call failed", "op", op, "err", err)
		return c.JSON(status, errorResponse{Detail: err.Error()})
	default:
		logger.Error("Pipeline failed", "op", op, "err", err)
		return c.JSON(status, errorResponse{Detail: "Internal server error"})
	}
}
