package main

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/sift-dev/sift/internal/config"
	"github.com/sift-dev/sift/internal/dev"
	"github.com/sift-dev/sift/internal/errors"
	"github.com/sift-dev/sift/pkg/artifact"
	"github.com/sift-dev/sift/pkg/compiler"
)

func buildCmd() *cobra.Command {
	var (
		routes string
		out    string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the app and emit a deployable bundle",
		Long: `Compile every .sft file under the routes directory, build the
route tree, and write the resulting JSON bundle to the configured
artifact store.

Examples:
  sift build
  sift build --routes=app/routes --out=dist
  sift build --pretty`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(routes, out, pretty)
		},
	}

	cmd.Flags().StringVarP(&routes, "routes", "r", "", "Routes directory (default from sift.json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output directory for the disk store (default from sift.json)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the emitted JSON")

	return cmd
}

func runBuild(routes, out string, pretty bool) error {
	cfg, err := config.LoadOrDefault(".")
	if err != nil {
		return err
	}
	if routes != "" {
		cfg.Routes = routes
	}
	if out != "" {
		cfg.Artifact.Dir = out
	}
	if pretty {
		cfg.Build.Pretty = true
	}

	snap, err := buildSnapshot(cfg)
	if err != nil {
		return err
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	bundle := artifact.NewBundle(snap)
	location, err := artifact.Publish(context.Background(), store, bundle, cfg.Build.Pretty)
	if err != nil {
		return err
	}

	success("Build %s", snap.BuildID)
	info("%d components, %d routes", len(snap.Descriptors), len(snap.Routes.Routes()))
	info("bundle written to %s", location)
	return nil
}

// buildSnapshot compiles the routes directory, printing every diagnostic
// before returning the failure.
func buildSnapshot(cfg *config.Config) (*compiler.Snapshot, error) {
	sources, err := dev.LoadSources(cfg.Routes)
	if err != nil {
		return nil, errors.New("S501").Wrap(err).
			WithDetail(fmt.Sprintf("cannot read routes directory %q", cfg.Routes))
	}

	start := time.Now()
	snap, err := compiler.BuildSnapshot(sources)
	if err != nil {
		printDiagnostics(err)
		return nil, errors.New("S502")
	}

	info("compiled %d files in %s", len(sources), time.Since(start).Round(time.Millisecond))
	return snap, nil
}

// newStore builds the artifact store selected in sift.json.
func newStore(cfg *config.Config) (artifact.Store, error) {
	switch cfg.Artifact.Store {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Artifact.Region))
		if err != nil {
			return nil, err
		}
		client := s3.NewFromConfig(awsCfg)
		return artifact.NewS3Store(client, cfg.Artifact.Bucket, cfg.Artifact.Prefix), nil
	default:
		return artifact.NewDiskStore(cfg.Artifact.Dir), nil
	}
}
