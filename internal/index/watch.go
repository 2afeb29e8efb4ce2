// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after a watcher-driven index change. kind is one
// of "indexed" or "removed".
type EventCallback func(kind, path string)

// Watch keeps the index in sync with the notes directory until ctx is
// cancelled. It runs a full Ingest first so changes made while nobody was
// watching are picked up.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(s.notesDir); err != nil {
		return err
	}

	summary, err := s.Ingest(ctx, io.Discard)
	if err != nil {
		return err
	}
	logger.Info("watch: started",
		slog.String("dir", s.notesDir),
		slog.Int("indexed", summary.Indexed+summary.Updated),
		slog.Int("removed", summary.Removed))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if err := s.IndexFile(ctx, ev.Name); err != nil {
					logger.Warn("watch: index failed", slog.String("path", ev.Name), slog.String("error", err.Error()))
					continue
				}
				logger.Debug("watch: indexed", slog.String("path", ev.Name))
				if cb != nil {
					cb("indexed", ev.Name)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old name; the new name arrives as Create.
				if err := s.RemoveFile(ctx, ev.Name); err != nil {
					logger.Warn("watch: remove failed", slog.String("path", ev.Name), slog.String("error", err.Error()))
					continue
				}
				logger.Debug("watch: removed", slog.String("path", ev.Name))
				if cb != nil {
					cb("removed", ev.Name)
				}
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", werr.Error()))
		}
	}
}
