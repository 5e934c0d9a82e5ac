package server

import (
	"github.com/OFFIS-RIT/cubeql/internal/server/routes"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/", routes.GetStatusHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Pipeline routes
	e.POST("/", routes.SelectAndGenerateHandler)
	e.POST("/cube", routes.SelectCubeHandler)
	e.POST("/query", routes.GenerateQueryHandler)

	// Form UI
	e.GET("/ui", routes.GetFormHandler)
	e.POST("/ui", routes.PostFormHandler)
}
