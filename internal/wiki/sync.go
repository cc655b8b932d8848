package wiki

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SyncResult reports the outcome of a corpus sync. Per-article
// failures are collected rather than aborting the run; one broken
// document should not keep the rest of the corpus out of the graph.
type SyncResult struct {
	Synced int
	Errors []SyncError
}

type SyncError struct {
	Title string
	Err   error
}

func (e SyncError) Error() string {
	return fmt.Sprintf("%s: %v", e.Title, e.Err)
}

// SyncAll pushes every stored article into the graph with bounded
// concurrency.
func (s *Service) SyncAll(ctx context.Context, workers int) (*SyncResult, error) {
	if workers < 1 {
		workers = 4
	}
	titles, err := s.store.Titles()
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	result := &SyncResult{}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, title := range titles {
		g.Go(func() error {
			if _, err := s.SyncTitle(ctx, title); err != nil {
				s.log.Warn("sync failed", slog.String("title", title), slog.String("error", err.Error()))
				mu.Lock()
				result.Errors = append(result.Errors, SyncError{Title: title, Err: err})
				mu.Unlock()
				return nil
			}
			s.log.Debug("synced", slog.String("title", title))
			mu.Lock()
			result.Synced++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}
