package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

// ErrInvalidRoot is the only fatal scan error: the root path is missing or
// not a directory. Every other failure is recorded in Result.Skipped.
var ErrInvalidRoot = errors.New("root path missing or not a directory")

// Scanner runs the staged duplicate-detection pipeline:
// walk -> size bucket -> prefix-hash filter -> full-hash confirm -> aggregate.
// Each stage only processes candidates surviving the prior one, so full-file
// reads are the exception, not the rule.
type Scanner struct{}

// NewScanner creates a duplicate scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// prefixKey subdivides a size bucket by the digest of the leading bytes.
type prefixKey struct {
	size   int64
	digest string
}

// FindDuplicates scans the tree rooted at root and returns the duplicate
// groups found together with the partial-failure report. The scan aborts only
// on an invalid root or context cancellation.
func (s *Scanner) FindDuplicates(ctx context.Context, root string, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	df, err := newDigestFactory(opts.HashAlgorithm)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}

	start := time.Now()
	result := &Result{
		ScanID: uuid.New(),
		Root:   root,
	}

	slog.Info("starting duplicate scan",
		"root", root,
		"algorithm", opts.HashAlgorithm,
		"prefixBytes", opts.PrefixBytes,
		"workers", opts.WorkerCount)

	walker := NewWalker(opts.WorkerCount, opts.IgnorePatterns)
	files, skipped, err := walker.Walk(ctx, root, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Skipped = append(result.Skipped, skipped...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !opts.IncludeSystemFiles {
		files = dropSystemFiles(files)
	}

	buckets := bucketBySize(files)

	// The zero-byte bucket carries no informative content and is never
	// hashed. It is reported as a single group only on request.
	if zeroes, ok := buckets[0]; ok {
		delete(buckets, 0)
		if opts.IncludeZeroByte {
			paths := descriptorPaths(zeroes)
			sort.Strings(paths)
			result.Groups = append(result.Groups, DuplicateGroup{
				ContentHash: df.emptyDigest(),
				Size:        0,
				Paths:       paths,
			})
		}
	}

	for _, members := range buckets {
		result.Stats.SizeCandidates += int64(len(members))
	}

	prefixGroups, memo, err := s.prefixFilter(ctx, buckets, df, opts, result)
	if err != nil {
		return nil, err
	}

	groups, err := s.confirm(ctx, prefixGroups, memo, df, opts, result)
	if err != nil {
		return nil, err
	}
	result.Groups = append(result.Groups, groups...)

	// Deterministic output: groups sorted by content hash, paths sorted
	// lexicographically within each group.
	sort.Slice(result.Groups, func(i, j int) bool {
		return result.Groups[i].ContentHash < result.Groups[j].ContentHash
	})
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Path < result.Skipped[j].Path
	})

	result.Stats.Duration = time.Since(start)
	slog.Info("duplicate scan completed",
		"groups", len(result.Groups),
		"skipped", len(result.Skipped),
		"wastedBytes", result.TotalWastedBytes(),
		"duration", result.Stats.Duration)

	return result, nil
}

// prefixFilter hashes up to PrefixBytes from every size-bucket candidate and
// subdivides each bucket by that digest. Files no larger than the prefix
// window are fully hashed here; their digests are memoized so the confirm
// stage never re-reads them.
func (s *Scanner) prefixFilter(ctx context.Context, buckets map[int64][]FileDescriptor, df digestFactory, opts Options, result *Result) (map[prefixKey][]FileDescriptor, map[string]string, error) {
	var mu sync.Mutex
	groups := make(map[prefixKey][]FileDescriptor)
	memo := make(map[string]string)

	hashPool := pool.New().WithMaxGoroutines(opts.WorkerCount).WithContext(ctx)
	for _, members := range buckets {
		for _, fd := range members {
			fd := fd
			hashPool.Go(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				digest, full, err := df.prefixDigest(fd.Path, opts.PrefixBytes)
				if err != nil {
					mu.Lock()
					result.Skipped = append(result.Skipped, SkippedPath{
						Path:   fd.Path,
						Reason: classifyReadError(err),
						Err:    err.Error(),
					})
					mu.Unlock()
					return nil
				}
				atomic.AddInt64(&result.Stats.BytesHashed, min(fd.Size, opts.PrefixBytes))

				key := prefixKey{size: fd.Size, digest: digest}
				mu.Lock()
				groups[key] = append(groups[key], fd)
				if full {
					memo[fd.Path] = digest
				}
				mu.Unlock()
				return nil
			})
		}
	}
	if err := hashPool.Wait(); err != nil {
		return nil, nil, err
	}

	for key, members := range groups {
		if len(members) < 2 {
			delete(groups, key)
			continue
		}
		result.Stats.PrefixCandidates += int64(len(members))
	}
	return groups, memo, nil
}

// confirm computes full-content digests for every surviving prefix group and
// emits a DuplicateGroup per digest shared by two or more files.
func (s *Scanner) confirm(ctx context.Context, prefixGroups map[prefixKey][]FileDescriptor, memo map[string]string, df digestFactory, opts Options, result *Result) ([]DuplicateGroup, error) {
	type confirmed struct {
		fd     FileDescriptor
		digest string
	}

	var (
		mu    sync.Mutex
		hits  []confirmed
		skips []SkippedPath
	)

	hashPool := pool.New().WithMaxGoroutines(opts.WorkerCount).WithContext(ctx)
	for _, members := range prefixGroups {
		for _, fd := range members {
			fd := fd
			if digest, ok := memo[fd.Path]; ok {
				mu.Lock()
				hits = append(hits, confirmed{fd: fd, digest: digest})
				mu.Unlock()
				continue
			}
			hashPool.Go(func(ctx context.Context) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				digest, n, err := df.fullDigest(fd.Path)
				atomic.AddInt64(&result.Stats.BytesHashed, n)
				if err != nil {
					mu.Lock()
					skips = append(skips, SkippedPath{
						Path:   fd.Path,
						Reason: classifyReadError(err),
						Err:    err.Error(),
					})
					mu.Unlock()
					return nil
				}
				mu.Lock()
				hits = append(hits, confirmed{fd: fd, digest: digest})
				mu.Unlock()
				return nil
			})
		}
	}
	if err := hashPool.Wait(); err != nil {
		return nil, err
	}
	result.Skipped = append(result.Skipped, skips...)

	byDigest := make(map[string][]confirmed)
	for _, c := range hits {
		byDigest[c.digest] = append(byDigest[c.digest], c)
	}

	var groups []DuplicateGroup
	for digest, members := range byDigest {
		if len(members) < 2 {
			continue
		}
		paths := make([]string, 0, len(members))
		for _, c := range members {
			paths = append(paths, c.fd.Path)
		}
		sort.Strings(paths)
		groups = append(groups, DuplicateGroup{
			ContentHash: digest,
			Size:        members[0].fd.Size,
			Paths:       paths,
		})
	}
	return groups, nil
}

// dropSystemFiles removes OS junk files from the candidate set.
func dropSystemFiles(files []FileDescriptor) []FileDescriptor {
	kept := files[:0]
	for _, fd := range files {
		if !fd.IsSystemFile() {
			kept = append(kept, fd)
		}
	}
	return kept
}

func descriptorPaths(files []FileDescriptor) []string {
	paths := make([]string, 0, len(files))
	for _, fd := range files {
		paths = append(paths, fd.Path)
	}
	return paths
}
