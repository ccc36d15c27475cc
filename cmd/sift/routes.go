package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sift-dev/sift/internal/config"
	"github.com/sift-dev/sift/internal/dev"
	"github.com/sift-dev/sift/internal/errors"
	"github.com/sift-dev/sift/pkg/router"
)

func routesCmd() *cobra.Command {
	var routes string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the app's route table",
		Long: `Build the route tree from the routes directory and print every
registered route with its page, layout, and API files.

Examples:
  sift routes
  sift routes --routes=app/routes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes(routes)
		},
	}

	cmd.Flags().StringVarP(&routes, "routes", "r", "", "Routes directory (default from sift.json)")

	return cmd
}

func runRoutes(routesDir string) error {
	cfg, err := config.LoadOrDefault(".")
	if err != nil {
		return err
	}
	if routesDir != "" {
		cfg.Routes = routesDir
	}

	sources, err := dev.LoadSources(cfg.Routes)
	if err != nil {
		return errors.New("S501").Wrap(err)
	}

	paths := make([]string, 0, len(sources))
	for p := range sources {
		paths = append(paths, p)
	}
	tree, err := router.BuildRouteTree(paths)
	if err != nil {
		printDiagnostics(err)
		return errors.New("S502")
	}

	infos := tree.Routes()
	if len(infos) == 0 {
		warn("no routes found under %s", cfg.Routes)
		return nil
	}

	width := 0
	for _, r := range infos {
		if len(r.Pattern) > width {
			width = len(r.Pattern)
		}
	}

	for _, r := range infos {
		files := make([]string, 0, 3)
		if r.PageFile != "" {
			files = append(files, "page: "+r.PageFile)
		}
		if r.LayoutFile != "" {
			files = append(files, "layout: "+r.LayoutFile)
		}
		if r.APIFile != "" {
			files = append(files, "api: "+r.APIFile)
		}
		fmt.Printf("  %-*s  %s\n", width, r.Pattern, strings.Join(files, ", "))
	}
	return nil
}
