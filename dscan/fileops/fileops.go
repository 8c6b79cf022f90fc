// Package fileops implements the destructive helpers behind the cleanup
// front-ends: file and directory removal, rename planning, and empty
// directory detection. Every operation defaults to dry-run; callers opt in
// to real changes explicitly.
package fileops

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNotAFile      = errors.New("path is not a file")
	ErrNotADirectory = errors.New("path is not a directory")
	ErrDirNotEmpty   = errors.New("directory not empty")
)

// RemoveFile deletes a single file. A vanished file is not an error. With
// dryRun the planned removal is only logged.
func RemoveFile(path string, dryRun bool) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	if dryRun {
		slog.Info("dry run remove", "path", path)
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// RemoveDir deletes a directory. Without recursive it refuses to remove a
// non-empty directory; system junk files alone do not count as content.
func RemoveDir(path string, recursive, dryRun bool) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, path)
	}

	empty, err := IsAlmostEmptyDir(path)
	if err != nil {
		return err
	}
	if !empty && !recursive {
		return fmt.Errorf("%w: %s", ErrDirNotEmpty, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			if err := RemoveDir(child, recursive, dryRun); err != nil {
				return err
			}
		} else if err := RemoveFile(child, dryRun); err != nil {
			return err
		}
	}

	if dryRun {
		slog.Info("dry run remove directory", "path", path)
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove directory %s: %w", path, err)
	}
	return nil
}

// IsEmptyDir reports whether the directory has no entries at all.
func IsEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	return len(entries) == 0, nil
}

// IsAlmostEmptyDir reports whether the directory holds nothing but OS junk
// files (macOS shadow files and Finder metadata).
func IsAlmostEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || (!strings.HasPrefix(name, "._") && name != ".DS_Store") {
			return false, nil
		}
	}
	return true, nil
}

// FindEmptyDirs walks the tree under root and returns every directory that is
// empty or almost empty, deepest paths first so they can be removed in order.
func FindEmptyDirs(root string) ([]string, error) {
	var empties []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			slog.Debug("skipping unreadable path", "path", path, "error", err)
			return filepath.SkipDir
		}
		if !d.IsDir() || path == root {
			return nil
		}
		almost, err := IsAlmostEmptyDir(path)
		if err != nil {
			return nil
		}
		if almost {
			empties = append(empties, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(empties, func(i, j int) bool {
		return len(empties[i]) > len(empties[j])
	})
	return empties, nil
}
