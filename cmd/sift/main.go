package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sift-dev/sift/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬┌─┐┌┬┐
  └─┐│├┤  │
  └─┘┴└   ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "sift",
		Short: "The Sift template compiler and dev server",
		Long: `Sift compiles .sft template files into component descriptors
and resolves file-based routes.

  • Single-pass compile: lex, parse, validate, lower
  • File-based routing with [param] and [...param] segments
  • Nested layout composition
  • Hot reload development server
  • JSON bundle output for deployment`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands
	rootCmd.AddCommand(
		initCmd(),
		buildCmd(),
		checkCmd(),
		routesCmd(),
		devCmd(),
		versionCmd(),
	)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the Sift ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
