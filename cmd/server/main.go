package main

import (
	"github.com/OFFIS-RIT/cubeql/internal/app"
	"github.com/OFFIS-RIT/cubeql/internal/config"
	"github.com/OFFIS-RIT/cubeql/internal/server"
	"github.com/OFFIS-RIT/cubeql/internal/util"
	"github.com/OFFIS-RIT/cubeql/pkg/logger"
	"github.com/OFFIS-RIT/cubeql/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "err", err)
	}

	a, err := app.New(cfg, logger.Default())
	if err != nil {
		logger.Fatal("Failed to set up pipeline", "err", err)
	}

	server.Init(a)
}
