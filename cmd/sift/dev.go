package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sift-dev/sift/internal/config"
	"github.com/sift-dev/sift/internal/dev"
	"github.com/sift-dev/sift/pkg/serve"
)

func devCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server with live reload.

The dev server watches the routes directory, recompiles on change,
and refreshes connected browsers. Build errors show up as an
overlay in the browser while the last good build keeps serving.

Examples:
  sift dev
  sift dev --port=8080
  sift dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from sift.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from sift.json)")

	return cmd
}

func runDev(port int, host string) error {
	cfg, err := config.LoadOrDefault(".")
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}

	printBanner()
	fmt.Println("  dev")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	session := dev.NewSession(cfg, logger)

	var reload http.Handler
	if cfg.Dev.HotReload {
		reload = http.HandlerFunc(session.Reload().HandleWebSocket)
	}

	server := serve.New(session.Publisher(), serve.Config{
		Address:       fmt.Sprintf("%s:%d", cfg.Dev.Host, cfg.Dev.Port),
		Logger:        logger,
		Metrics:       true,
		Tracing:       true,
		ReloadHandler: reload,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
		_ = server.Shutdown(context.Background())
	}()

	go func() {
		if err := session.Run(ctx); err != nil && err != context.Canceled {
			errorMsg("watcher stopped: %s", err)
		}
	}()

	info("serving on http://%s:%d", cfg.Dev.Host, cfg.Dev.Port)
	defer session.Reload().Close()
	return server.Run()
}
