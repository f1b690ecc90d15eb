package topology

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/oshokin/alert-router/internal/logger"
)

// WatchTableFile reloads table from path whenever the file is written or recreated,
// until ctx is canceled. An unreadable or invalid file keeps the previous contents.
// The parent directory is watched so editors that replace the file are handled.
func WatchTableFile(ctx context.Context, path string, table *StaticTable) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("topology watcher: %w", err)
	}

	if err = watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()

		return fmt.Errorf("topology watcher add %s: %w", path, err)
	}

	ctx = logger.WithKV(ctx, "file", path)
	target := filepath.Clean(path)

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != target ||
					!(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
					continue
				}

				buildings, loadErr := LoadTableFile(path)
				if loadErr != nil {
					logger.WarnKV(ctx, "Keeping previous fallback topology", "error", loadErr)

					continue
				}

				table.Replace(buildings)
				logger.InfoKV(ctx, "Fallback topology reloaded", "buildings", len(buildings))
			case watchErr, ok := <-watcher.Errors:
				if !ok {
					return
				}

				logger.WarnKV(ctx, "Topology watcher error", "error", watchErr)
			}
		}
	}()

	return nil
}
