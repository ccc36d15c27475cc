package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sift-dev/sift/internal/config"
	"github.com/sift-dev/sift/internal/errors"
)

func initCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new Sift app",
		Long: `Write a sift.json and a minimal app/routes tree into the target
directory (default: current directory).

Examples:
  sift init
  sift init myapp --name myapp`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "App name (default: directory name)")

	return cmd
}

var starterFiles = map[string]string{
	"page.sft": `page Home {
  state { greeting: string = "Hello from Sift" }
}
<main>
  <h1>{greeting}</h1>
</main>`,
	"layout.sft": `layout Shell { }
<html>
  <body>{children}</body>
</html>`,
	"api/health.sft": `export GET(request) { request.query }`,
}

func runInit(dir, name string) error {
	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return errors.New("S501").Wrap(err)
		}
		name = filepath.Base(abs)
	}

	cfgPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return errors.New("S501").Wrap(fmt.Errorf("%s already exists", cfgPath))
	}

	cfg := config.New()
	cfg.Name = name
	cfg.Version = "0.1.0"

	for rel, src := range starterFiles {
		path := filepath.Join(dir, cfg.Routes, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.New("S501").Wrap(err)
		}
		if err := os.WriteFile(path, []byte(src+"\n"), 0o644); err != nil {
			return errors.New("S501").Wrap(err)
		}
		info("created %s", path)
	}

	if err := cfg.SaveTo(cfgPath); err != nil {
		return err
	}
	info("created %s", cfgPath)

	printBanner()
	success("initialized %s", name)
	info("next: cd %s && sift dev", dir)
	return nil
}
