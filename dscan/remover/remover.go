// Package remover implements the duplicate-removal front-ends. They consume
// the persisted hash-to-paths mapping produced by a scan (or a live scan
// result) and never decide on their own which copy survives: the policy is
// explicit (keep first, keep longest parent, or ask the user).
package remover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/diskscan/diskscan/dscan/fileops"
	"github.com/diskscan/diskscan/dscan/filter"
	"github.com/diskscan/diskscan/dscan/ports"
	"github.com/diskscan/diskscan/dscan/scan"
)

// Options configures removal behavior.
type Options struct {
	DryRun            bool     // Plan removals without deleting
	ExcludeSuffixes   []string // Never remove files with these extensions
	KeepLongestParent bool     // Automatic mode: keep the deepest-parent copy
}

// Remover drives duplicate removal through an Interactor.
type Remover struct {
	terminal ports.Interactor
	opts     Options
}

// New creates a remover speaking through the given interactor.
func New(terminal ports.Interactor, opts Options) *Remover {
	return &Remover{terminal: terminal, opts: opts}
}

// FromResult converts a scan result into the hash-to-paths mapping the
// removal modes consume. A non-empty subtree restricts the mapping to groups
// with at least one member below that directory, answered by the result's
// radix path index.
func FromResult(result *scan.Result, subtree string) map[string][]string {
	var groups []*scan.DuplicateGroup
	if subtree == "" {
		for i := range result.Groups {
			groups = append(groups, &result.Groups[i])
		}
	} else {
		groups = result.Index().GroupsUnder(subtree)
	}

	mapping := make(map[string][]string, len(groups))
	for _, g := range groups {
		mapping[g.ContentHash] = g.Paths
	}
	return mapping
}

// RestrictToSubtree keeps only the groups with at least one member below dir.
// The mapping is lifted into a scan result so the subtree question is
// answered by its radix path index rather than a per-path prefix scan.
func RestrictToSubtree(groups map[string][]string, dir string) map[string][]string {
	result := &scan.Result{Groups: make([]scan.DuplicateGroup, 0, len(groups))}
	for hash, paths := range groups {
		result.Groups = append(result.Groups, scan.DuplicateGroup{
			ContentHash: hash,
			Paths:       paths,
		})
	}
	return FromResult(result, dir)
}

// prepare filters a group down to the removable candidates: natural path
// order, exclusion suffixes dropped, vanished files dropped.
func (r *Remover) prepare(paths []string) []string {
	items := append([]string(nil), paths...)
	filter.SortNatural(items)
	items = filter.ExcludePathSuffixes(items, r.opts.ExcludeSuffixes)

	existing := items[:0]
	for _, p := range items {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	return existing
}

// sortedKeys gives a stable processing order over the mapping.
func sortedKeys(groups map[string][]string) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Automatic removes every duplicate but one per group. By default the first
// path in natural order survives; with KeepLongestParent the copy with the
// longest parent directory survives instead.
func (r *Remover) Automatic(groups map[string][]string) error {
	keys := sortedKeys(groups)
	for i, hash := range keys {
		items := r.prepare(groups[hash])
		if len(items) <= 1 {
			continue
		}

		r.terminal.Output(fmt.Sprintf("Progress: %d/%d, Hash: %s", i+1, len(keys), hash))
		keep := 0
		if r.opts.KeepLongestParent {
			keep = longestParentIndex(items)
		}

		for idx, item := range items {
			if idx == keep {
				continue
			}
			r.terminal.Output(fmt.Sprintf("Remove: %s", item))
			if err := fileops.RemoveFile(item, r.opts.DryRun); err != nil {
				r.terminal.Error("failed to remove file", err)
			}
		}
	}
	return nil
}

// Interactive asks, group by group, which copy to keep. An empty answer or
// an out-of-range index skips the group.
func (r *Remover) Interactive(groups map[string][]string) error {
	keys := sortedKeys(groups)
	for i, hash := range keys {
		items := r.prepare(groups[hash])
		if len(items) <= 1 {
			continue
		}

		r.terminal.Output(fmt.Sprintf("Progress: %d/%d, Hash: %s", i+1, len(keys), hash))
		for idx, item := range items {
			r.terminal.Output(fmt.Sprintf("%d) %s", idx, item))
		}

		answer, err := r.terminal.Ask(fmt.Sprintf("Which one to KEEP? Choose [0-%d], or ENTER to skip: ", len(items)-1))
		if err != nil {
			return fmt.Errorf("failed to read answer: %w", err)
		}
		if answer == "" {
			r.terminal.Output("Skip.")
			continue
		}
		keep, err := strconv.Atoi(answer)
		if err != nil || keep < 0 || keep >= len(items) {
			r.terminal.Warning(fmt.Sprintf("answer %q out of range, skip", answer))
			continue
		}

		for idx, item := range items {
			if idx == keep {
				continue
			}
			r.terminal.Output(fmt.Sprintf("Remove: %s", item))
			if err := fileops.RemoveFile(item, r.opts.DryRun); err != nil {
				r.terminal.Error("failed to remove file", err)
			}
		}
	}
	return nil
}

// RemoveDirs removes the listed directories, best effort: failures are
// reported through the interactor and do not stop the batch.
func (r *Remover) RemoveDirs(paths []string, recursive bool) error {
	for i, path := range paths {
		r.terminal.Output(fmt.Sprintf("Progress: %d/%d, Path: %s", i+1, len(paths), path))
		if err := fileops.RemoveDir(path, recursive, r.opts.DryRun); err != nil {
			r.terminal.Error("failed to remove directory", err)
		}
	}
	return nil
}

// longestParentIndex picks the item whose parent directory path is longest.
func longestParentIndex(items []string) int {
	best, bestLen := 0, -1
	for idx, item := range items {
		if l := len(filepath.Dir(item)); l > bestLen {
			best, bestLen = idx, l
		}
	}
	return best
}
