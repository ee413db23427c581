// Package cli provides the command-line interface for dominant.
package cli

import (
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Every call returns fresh commands and flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dominant",
		Short: "Dominant colour extraction for images and video frames",
		Long: `dominant finds the dominant colours of an image region with k-means++ seeding
and Lloyd refinement in CIELAB, summarises colour distributions with an OkLCh
chroma/hue histogram, and tracks vertical strips of video frames over time.`,
		SilenceUsage: true,
	}

	// Global flags
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")

	root.AddCommand(newExtractCmd())
	root.AddCommand(newHistogramCmd())
	root.AddCommand(newStripsCmd())
	root.AddCommand(newWatchCmd())
	return root
}

// loggerFor creates the command logger on stderr and installs it as the hclog default.
// --quiet wins over --verbose.
func loggerFor(cmd *cobra.Command) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	level := hclog.Info
	switch {
	case quiet:
		level = hclog.Error
	case verbose:
		level = hclog.Debug
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "dominant",
		Output: cmd.ErrOrStderr(),
		Level:  level,
	})
	hclog.SetDefault(logger)
	return logger.Named(cmd.Name())
}
