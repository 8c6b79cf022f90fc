package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sourcegraph/conc/pool"
)

// Walker enumerates regular files under a root path using level-parallel BFS
// descent over a bounded worker pool. Symbolic links are never followed, so
// cycles cannot occur. Unreadable directories are recorded and skipped; the
// rest of the tree is still visited.
type Walker struct {
	maxWorkers int
	matcher    *ignore.GitIgnore
}

// NewWalker creates a walker with the given worker bound and optional
// gitignore-style patterns.
func NewWalker(maxWorkers int, ignorePatterns []string) *Walker {
	var matcher *ignore.GitIgnore
	if len(ignorePatterns) > 0 {
		matcher = ignore.CompileIgnoreLines(ignorePatterns...)
	}
	return &Walker{maxWorkers: maxWorkers, matcher: matcher}
}

// walkLevel is the outcome of reading a single directory.
type walkLevel struct {
	files      []FileDescriptor
	subdirs    []string
	skipped    []SkippedPath
	unreadable bool
}

// Walk traverses the tree rooted at root and returns every reachable regular
// file together with the directories that could not be read. A fresh walk can
// be re-issued at any time; the walker holds no mutable shared state between
// calls. The only error returned is context cancellation.
func (w *Walker) Walk(ctx context.Context, root string, stats *Stats) ([]FileDescriptor, []SkippedPath, error) {
	var (
		mu      sync.Mutex
		files   []FileDescriptor
		skipped []SkippedPath
	)

	// BFS level by level; each level's directories are read concurrently.
	currentLevel := []string{root}
	for len(currentLevel) > 0 {
		var (
			nextMu    sync.Mutex
			nextLevel []string
		)

		levelPool := pool.New().WithMaxGoroutines(w.maxWorkers).WithContext(ctx)
		for _, dir := range currentLevel {
			dir := dir
			levelPool.Go(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				result := w.readDir(dir)
				if len(result.skipped) > 0 {
					mu.Lock()
					skipped = append(skipped, result.skipped...)
					mu.Unlock()
				}
				if result.unreadable {
					return nil
				}

				atomic.AddInt64(&stats.DirsSeen, 1)
				atomic.AddInt64(&stats.FilesSeen, int64(len(result.files)))

				mu.Lock()
				files = append(files, result.files...)
				mu.Unlock()

				nextMu.Lock()
				nextLevel = append(nextLevel, result.subdirs...)
				nextMu.Unlock()
				return nil
			})
		}
		if err := levelPool.Wait(); err != nil {
			return nil, nil, err
		}

		currentLevel = nextLevel
	}

	return files, skipped, nil
}

// ListFiles enumerates every regular file under root with the same traversal
// the duplicate pipeline uses, for callers that want the raw descriptor set
// (size/suffix filtering, suffix counting).
func ListFiles(ctx context.Context, root string, opts Options) ([]FileDescriptor, []SkippedPath, error) {
	opts = opts.withDefaults()

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}

	var stats Stats
	return NewWalker(opts.WorkerCount, opts.IgnorePatterns).Walk(ctx, root, &stats)
}

// readDir reads a single directory and classifies its entries.
func (w *Walker) readDir(dir string) walkLevel {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Debug("skipping unreadable directory", "path", dir, "error", err)
		return walkLevel{
			unreadable: true,
			skipped: []SkippedPath{{
				Path:   dir,
				Reason: DirectoryReadError,
				Err:    fmt.Sprintf("failed to read directory: %v", err),
			}},
		}
	}

	result := walkLevel{
		files:   make([]FileDescriptor, 0, len(entries)),
		subdirs: make([]string, 0, len(entries)/8+1),
	}
	for _, entry := range entries {
		childPath := filepath.Join(dir, entry.Name())

		if w.matcher != nil && w.matcher.MatchesPath(childPath) {
			slog.Debug("ignoring path", "path", childPath)
			continue
		}

		// Symlinks are skipped outright: following them risks cycles and
		// double-counting, and a link is never a duplicate of its target.
		switch {
		case entry.IsDir():
			result.subdirs = append(result.subdirs, childPath)
		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				slog.Debug("error getting file info", "path", childPath, "error", err)
				result.skipped = append(result.skipped, SkippedPath{
					Path:   childPath,
					Reason: classifyReadError(err),
					Err:    err.Error(),
				})
				continue
			}
			result.files = append(result.files, FileDescriptor{
				Path: childPath,
				Size: info.Size(),
			})
		}
	}
	return result
}
