package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/atheneum-labs/shelfsearch/internal/core/domain"
	"github.com/atheneum-labs/shelfsearch/internal/core/services"
	"github.com/atheneum-labs/shelfsearch/internal/logger"
)

// watchDebounce coalesces the burst of fsnotify events a single file
// replacement produces into one rebuild.
const watchDebounce = 2 * time.Second

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild indexes automatically when their sources change",
	Long: `Watches the FAQ file and the catalogue database and rebuilds the
matching index when a source changes. With --interval, also rebuilds
every index periodically regardless of changes. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "also rebuild periodically at this interval (0 = change-driven only)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directories: editors and uploads replace files
	// by rename, which unregisters a direct file watch.
	sources := map[string]domain.Kind{
		filepath.Clean(cfg.Sources.FAQPath):       domain.KindFAQ,
		filepath.Clean(cfg.Sources.CataloguePath): domain.KindCatalogue,
	}
	dirs := make(map[string]struct{})
	for path := range sources {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	var scheduler *services.Scheduler
	if watchInterval > 0 {
		scheduler = services.NewScheduler(watchInterval, rebuildService)
		go func() {
			if err := scheduler.Start(cmd.Context()); err != nil && !errors.Is(err, cmd.Context().Err()) {
				logger.Warn("Scheduler stopped: %v", err)
			}
		}()
		defer scheduler.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	cmd.Println("Watching for source changes. Press Ctrl+C to stop.")

	pending := make(map[domain.Kind]time.Time)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-sigCh:
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if kind, watched := sources[filepath.Clean(event.Name)]; watched {
				logger.Debug("Source change: %s (%s)", event.Name, event.Op)
				pending[kind] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-ticker.C:
			for kind, at := range pending {
				if time.Since(at) < watchDebounce {
					continue
				}
				delete(pending, kind)
				rebuildKind(cmd, kind)
			}
		}
	}
}

func rebuildKind(cmd *cobra.Command, kind domain.Kind) {
	report, err := rebuildService.Rebuild(cmd.Context(), kind)
	switch {
	case errors.Is(err, domain.ErrRebuildInProgress):
		logger.Debug("Rebuild of %s already running, change will be picked up next time", kind)
	case err != nil:
		cmd.Printf("%s: rebuild failed: %v\n", kind, err)
	default:
		cmd.Printf("%s: generation %s built (%d records)\n", kind, report.GenerationID, report.RecordCount)
	}
}
