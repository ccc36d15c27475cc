package main

import (
	stderrors "errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sift-dev/sift/internal/config"
	"github.com/sift-dev/sift/internal/dev"
	"github.com/sift-dev/sift/internal/errors"
	"github.com/sift-dev/sift/pkg/compiler"
)

func checkCmd() *cobra.Command {
	var routes string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compile the app without emitting anything",
		Long: `Run the full compile pipeline over every .sft file and report
all diagnostics. Exits non-zero when any file fails.

Examples:
  sift check
  sift check --routes=app/routes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(routes)
		},
	}

	cmd.Flags().StringVarP(&routes, "routes", "r", "", "Routes directory (default from sift.json)")

	return cmd
}

func runCheck(routes string) error {
	cfg, err := config.LoadOrDefault(".")
	if err != nil {
		return err
	}
	if routes != "" {
		cfg.Routes = routes
	}

	sources, err := dev.LoadSources(cfg.Routes)
	if err != nil {
		return errors.New("S501").Wrap(err)
	}

	snap, err := compiler.BuildSnapshot(sources)
	if err != nil {
		printDiagnostics(err)
		return errors.New("S502")
	}

	success("%d files OK, %d routes", len(sources), len(snap.Routes.Routes()))
	return nil
}

// printDiagnostics prints every diagnostic inside a build error, sorted by
// file for stable output.
func printDiagnostics(err error) {
	var fail *compiler.BuildFailure
	if stderrors.As(err, &fail) {
		files := make([]string, 0, len(fail.Errors))
		for file := range fail.Errors {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			for _, se := range errors.Convert(fail.Errors[file]) {
				errors.PrintError(se)
			}
		}
		return
	}

	for _, se := range errors.Convert(err) {
		errors.PrintError(se)
	}
}
