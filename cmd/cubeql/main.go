package main

import (
	"fmt"
	"os"

	"github.com/OFFIS-RIT/cubeql/internal/app"
	"github.com/OFFIS-RIT/cubeql/internal/config"
	"github.com/OFFIS-RIT/cubeql/internal/util"
	"github.com/OFFIS-RIT/cubeql/pkg/logger"
	"github.com/OFFIS-RIT/cubeql/pkg/logger/console"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var envFile string
	var debug bool

	root := &cobra.Command{
		Use:     "cubeql",
		Short:   "Turn questions about Zurich open data into SPARQL queries",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if envFile != "" {
				util.LoadEnv(envFile)
			} else {
				util.LoadEnv()
			}
			if !cmd.Flags().Changed("debug") {
				debug = util.GetEnvBool("DEBUG", false)
			}
			logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
				Debug:  debug,
				Prefix: "cubeql",
			}))
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load instead of .env")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(),
		newCubeCmd(),
		newQueryCmd(),
		newAskCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup builds the App from the environment.
func setup() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, logger.Default())
}
