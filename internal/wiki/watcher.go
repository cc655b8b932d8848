package wiki

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"wikigraph/internal/storage"
)

const watchDebounce = 250 * time.Millisecond

// Watch follows the article directory and mirrors file changes into
// the graph until ctx is cancelled. Writes are debounced per title so
// an editor's save-then-rewrite burst produces a single sync.
func (s *Service) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.store.Dir()); err != nil {
		return err
	}
	s.log.Info("watching", slog.String("dir", s.store.Dir()))

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Error("watch error", slog.String("error", err.Error()))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			title, ok := watchTitle(event.Name)
			if !ok {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
				if timer, exists := timers[title]; exists {
					timer.Stop()
				}
				timers[title] = time.AfterFunc(watchDebounce, func() {
					if _, err := s.SyncTitle(ctx, title); err != nil {
						s.log.Warn("sync failed", slog.String("title", title), slog.String("error", err.Error()))
						return
					}
					s.log.Info("synced", slog.String("title", title))
				})
			case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
				if timer, exists := timers[title]; exists {
					timer.Stop()
					delete(timers, title)
				}
				if err := s.graph.RemoveArticle(ctx, title); err != nil {
					s.log.Warn("remove failed", slog.String("title", title), slog.String("error", err.Error()))
					continue
				}
				s.log.Info("removed", slog.String("title", title))
			}
		}
	}
}

// watchTitle maps a filesystem event path to an article title,
// filtering out backups and non-article files.
func watchTitle(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".md") || strings.Contains(name, "~") {
		return "", false
	}
	title, err := storage.TitleFromFile(name)
	if err != nil {
		return "", false
	}
	return title, true
}
