package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nickcecere/barnsbot/internal/config"
	"github.com/nickcecere/barnsbot/internal/fs"
	"github.com/nickcecere/barnsbot/internal/ingest"
	"github.com/nickcecere/barnsbot/internal/ui"
	"github.com/nickcecere/barnsbot/internal/watcher"
)

var (
	watchNoInitial bool
)

// watchCmd represents the watch command.
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Upload documents as they are added or changed",
	Long: `Watch a directory and upload supported documents whenever they are created
or modified. Unchanged content is not uploaded twice in one session, and a
new revision replaces the copy this session uploaded earlier.

The directory is uploaded once on start unless --no-initial is given.

Examples:
  # Watch the current directory
  barnsbot watch

  # Watch a shared drive folder, assuming it is already uploaded
  barnsbot watch /mnt/policies --no-initial`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatchCmd,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoInitial, "no-initial", false, "skip the initial upload")
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", absPath)
	}

	cfg := config.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}

	w, err := watcher.New(absPath, b.pipeline, ingest.Extensions(),
		watcher.WithMaxFileSize(walkOptions(cfg).MaxFileSize),
		watcher.WithEventCallback(func(event, path string) {
			log.Debug("File event", "event", event, "path", path)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	files, err := fs.Gather([]string{absPath}, walkOptions(cfg))
	if err != nil {
		return err
	}

	switch {
	case watchNoInitial:
		w.Remember(files)
	case len(files) > 0:
		fmt.Println(ui.Header.Render("Initial Upload"))
		report, err := b.pipeline.Ingest(ctx, sourcesFrom(files))
		if err != nil {
			return fmt.Errorf("initial upload failed: %w", err)
		}
		printReport(os.Stdout, report)
		fmt.Println()

		for i, r := range report.Results {
			if r.OK {
				w.RememberUpload(files[i].Path, files[i].Hash, r.FileID)
			}
		}
	}

	fmt.Println(ui.Header.Render("Watching for Changes"))
	fmt.Printf("Directory: %s\n", absPath)
	fmt.Println("Press Ctrl+C to stop.")
	fmt.Println()

	if err := w.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// watchInBackground keeps absPath uploaded until ctx ends. Existing files are
// assumed present in the store.
func watchInBackground(ctx context.Context, b *backend, absPath string) {
	// Wait a bit before starting to let the caller initialize
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	opts := walkOptions(b.cfg)
	w, err := watcher.New(absPath, b.pipeline, ingest.Extensions(),
		watcher.WithDebounceTime(1*time.Second),
		watcher.WithMaxFileSize(opts.MaxFileSize),
	)
	if err != nil {
		log.Error("Failed to create watcher", "error", err)
		return
	}

	if files, err := fs.Gather([]string{absPath}, opts); err == nil {
		w.Remember(files)
	}

	log.Info("Starting background file watcher", "path", absPath)
	if err := w.Start(ctx); err != nil && ctx.Err() == nil {
		log.Error("Watcher error", "error", err)
	}
}
