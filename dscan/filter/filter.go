// Package filter provides predicates over scanned file descriptors: size
// thresholds, suffix and name matching, and OS junk exclusion. Filters never
// touch the filesystem; they operate on the walker's descriptor snapshot.
package filter

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/diskscan/diskscan/dscan/scan"
)

// ImageSuffixes are the common raster/vector image file extensions.
var ImageSuffixes = []string{
	".jpeg", ".jpg", ".png", ".gif", ".webp", ".tiff",
	".psd", ".raw", ".bmp", ".heif", ".heic", ".svg",
}

// VideoSuffixes are the common video container file extensions.
var VideoSuffixes = []string{
	".avi", ".flv", ".mov", ".mp4", ".wmv", ".m4v",
	".mpg", ".mpeg", ".webm", ".vob", ".hevc",
}

// LargerThan keeps descriptors strictly larger than minBytes.
func LargerThan(files []scan.FileDescriptor, minBytes int64) []scan.FileDescriptor {
	var out []scan.FileDescriptor
	for _, fd := range files {
		if fd.Size > minBytes {
			out = append(out, fd)
		}
	}
	return out
}

// SmallerThan keeps descriptors strictly smaller than maxBytes.
func SmallerThan(files []scan.FileDescriptor, maxBytes int64) []scan.FileDescriptor {
	var out []scan.FileDescriptor
	for _, fd := range files {
		if fd.Size < maxBytes {
			out = append(out, fd)
		}
	}
	return out
}

// normalizeSuffixes lower-cases and dot-prefixes a suffix list, so "MP4" and
// ".mp4" are treated equally.
func normalizeSuffixes(suffixes []string) map[string]bool {
	set := make(map[string]bool, len(suffixes))
	for _, s := range suffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		set[s] = true
	}
	return set
}

// IncludeSuffixes keeps descriptors whose extension is in the list
// (case-insensitive, leading dot optional).
func IncludeSuffixes(files []scan.FileDescriptor, suffixes []string) []scan.FileDescriptor {
	set := normalizeSuffixes(suffixes)
	var out []scan.FileDescriptor
	for _, fd := range files {
		if set[strings.ToLower(filepath.Ext(fd.Path))] {
			out = append(out, fd)
		}
	}
	return out
}

// ExcludeSuffixes drops descriptors whose extension is in the list.
func ExcludeSuffixes(files []scan.FileDescriptor, suffixes []string) []scan.FileDescriptor {
	set := normalizeSuffixes(suffixes)
	var out []scan.FileDescriptor
	for _, fd := range files {
		if !set[strings.ToLower(filepath.Ext(fd.Path))] {
			out = append(out, fd)
		}
	}
	return out
}

// NameContains keeps descriptors whose base name contains any include
// substring and none of the exclude substrings, case-insensitively.
func NameContains(files []scan.FileDescriptor, include, exclude []string) []scan.FileDescriptor {
	var out []scan.FileDescriptor
	for _, fd := range files {
		name := strings.ToLower(filepath.Base(fd.Path))

		keep := false
		for _, part := range include {
			if strings.Contains(name, strings.ToLower(part)) {
				keep = true
				break
			}
		}
		for _, part := range exclude {
			if strings.Contains(name, strings.ToLower(part)) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, fd)
		}
	}
	return out
}

// ExcludePathSuffixes drops plain paths whose extension is in the list.
func ExcludePathSuffixes(paths []string, suffixes []string) []string {
	set := normalizeSuffixes(suffixes)
	var out []string
	for _, p := range paths {
		if !set[strings.ToLower(filepath.Ext(p))] {
			out = append(out, p)
		}
	}
	return out
}

// ExcludeSystemFiles drops OS junk files from the set.
func ExcludeSystemFiles(files []scan.FileDescriptor) []scan.FileDescriptor {
	var out []scan.FileDescriptor
	for _, fd := range files {
		if !fd.IsSystemFile() {
			out = append(out, fd)
		}
	}
	return out
}

// CountSuffixes tallies extension frequencies over the set, case-insensitive.
func CountSuffixes(files []scan.FileDescriptor) map[string]int {
	counts := make(map[string]int)
	for _, fd := range files {
		counts[strings.ToLower(filepath.Ext(fd.Path))]++
	}
	return counts
}

// SortByParentLength orders paths by the length of their parent directory,
// shortest first, ties broken lexicographically.
func SortByParentLength(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		pi, pj := filepath.Dir(paths[i]), filepath.Dir(paths[j])
		if len(pi) != len(pj) {
			return len(pi) < len(pj)
		}
		return paths[i] < paths[j]
	})
}
