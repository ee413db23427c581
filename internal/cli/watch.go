package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/setanarut/dominant/strips"
	"github.com/setanarut/dominant/utils"
	"github.com/spf13/cobra"
)

var frameExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".avif"}

func isFrameFile(path string) bool {
	return slices.Contains(frameExtensions, strings.ToLower(filepath.Ext(path)))
}

func newWatchCmd() *cobra.Command {
	f := &stripFlags{settings: strips.DefaultSettings()}
	var existing bool
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Track strip colours of frames as they appear in a directory",
		Long: `Watch a directory and feed every new frame image through the strip tracker,
printing one line of lead colours per frame. Interrupt to stop; the slit-scan
image is written on exit when --out is set.

Examples:
  # Follow a frame dump from ffmpeg
  dominant watch --count 10 --smoothing 0.3 /tmp/frames`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.autoStride = !cmd.Flags().Changed("stride")
			return runWatch(cmd, f, args[0], existing)
		},
	}
	addStripFlags(cmd.Flags(), f)
	cmd.Flags().BoolVar(&existing, "existing", false, "process frames already in the directory first, in name order")
	return cmd
}

func runWatch(cmd *cobra.Command, f *stripFlags, dir string, existing bool) error {
	logger := loggerFor(cmd)
	ctx := cmd.Context()

	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	runner := newFrameRunner(f, logger, cmd.OutOrStdout())
	seen := make(map[string]bool)
	handle := func(path string) error {
		if seen[path] || !isFrameFile(path) {
			return nil
		}
		img, err := utils.ReadImage(path)
		if err != nil {
			// partially written files fail to decode; the next write event retries them
			logger.Debug("frame skipped", "path", path, "error", err)
			return nil
		}
		seen[path] = true
		return runner.processImage(ctx, path, img)
	}

	if existing {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if err := handle(filepath.Join(dir, e.Name())); err != nil {
				return finishWatch(runner, err)
			}
		}
	}

	logger.Info("watching for frames", "dir", dir)
	for {
		select {
		case <-ctx.Done():
			return finishWatch(runner, nil)
		case ev, ok := <-watcher.Events:
			if !ok {
				return finishWatch(runner, nil)
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if err := handle(ev.Name); err != nil {
				return finishWatch(runner, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return finishWatch(runner, nil)
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// finishWatch saves the slit-scan; cancellation is a normal exit.
func finishWatch(runner *frameRunner, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if saveErr := runner.save(); saveErr != nil && err == nil {
		err = saveErr
	}
	return err
}
