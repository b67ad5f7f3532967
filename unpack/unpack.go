package unpack

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers - pool size when the caller does not choose one
const DefaultWorkers = 20

// Map runs fn over files on a bounded pool and gathers every non-nil result.
// Results arrive in completion order. The first error cancels the rest.
func Map[T any](ctx context.Context, files []string, workers int, fn func(ctx context.Context, file string) ([]T, error)) ([]T, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	log.Info().Int("files", len(files)).Int("workers", workers).Msg("[Unpack] processing")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	var (
		mu     sync.Mutex
		result []T
	)
	for _, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := fn(ctx, f)
			if err != nil {
				return err
			}
			mu.Lock()
			result = append(result, out...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// Find lists files under root with the given extension, sorted.
func Find(root, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
