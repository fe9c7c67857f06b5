package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the catalog from dir whenever one of its table files is
// written, created or renamed, until ctx is done. A reload that fails to
// parse or validate is logged and the previous catalog stays in place.
func Watch(ctx context.Context, dir string, h *Holder, logger *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("watching catalog", zap.String("dir", dir))

	tables := make(map[string]bool, len(Files))
	for _, f := range Files {
		tables[f] = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !tables[filepath.Base(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			c, err := Load(dir)
			if err != nil {
				logger.Warn("catalog reload rejected", zap.String("file", ev.Name), zap.Error(err))
				continue
			}
			h.Swap(c)
			logger.Info("catalog reloaded",
				zap.String("file", ev.Name),
				zap.Int("factors", len(c.Factors)),
				zap.Int("labs", len(c.Labs)),
				zap.Int("conditions", len(c.Conditions)))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}
