package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func GetStatusHandler(c echo.Context) error {
	type statusResponse struct {
		Status string `json:"status"`
	}

	return c.JSON(http.StatusOK, statusResponse{Status: "Service is up and running"})
}
