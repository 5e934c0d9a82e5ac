package main

import (
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/cubeql/internal/server"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and form UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			if port != "" {
				a.Config.Port = port
			}
			server.Init(a)
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port, overrides PORT")
	return cmd
}

func newCubeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cube QUESTION",
		Short: "Select the cube that answers a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			cube, err := a.Pipeline.SelectCube(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cube)
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	var cube string

	cmd := &cobra.Command{
		Use:   "query --cube ID QUESTION",
		Short: "Generate a SPARQL query against a known cube",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			query, err := a.Pipeline.GenerateQuery(cmd.Context(), strings.Join(args, " "), cube)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), query)
			return nil
		},
	}
	cmd.Flags().StringVar(&cube, "cube", "", "cube identifier, e.g. <https://ld.stadt-zuerich.ch/statistics/000001>")
	_ = cmd.MarkFlagRequired("cube")
	return cmd
}

func newAskCmd() *cobra.Command {
	var showCube bool

	cmd := &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Select a cube and generate the query in one go",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			res, err := a.Pipeline.SelectAndGenerate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if showCube {
				fmt.Fprintf(cmd.OutOrStdout(), "# cube: %s\n", res.Cube)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Query)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showCube, "show-cube", false, "print the selected cube before the query")
	return cmd
}
