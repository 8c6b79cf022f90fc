package scan

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileDescriptor identifies a regular file discovered during traversal.
// Descriptors are immutable once created; size is captured at enumeration
// time and is not re-checked before hashing.
type FileDescriptor struct {
	Path string
	Size int64
}

// IsSystemFile reports whether the descriptor points at an OS junk file
// (macOS AppleDouble shadow files and Finder metadata).
func (fd FileDescriptor) IsSystemFile() bool {
	base := filepath.Base(fd.Path)
	return strings.HasPrefix(base, "._") || base == ".DS_Store"
}

// FailureReason tags a skipped path with the class of error that caused it.
type FailureReason string

const (
	DirectoryReadError FailureReason = "directory_read_error"
	PermissionDenied   FailureReason = "permission_denied"
	Vanished           FailureReason = "vanished"
	IOError            FailureReason = "io_error"
)

// SkippedPath records a file or directory excluded from the scan along with
// the reason. A completed scan never drops a path silently.
type SkippedPath struct {
	Path   string        `json:"path"`
	Reason FailureReason `json:"reason"`
	Err    string        `json:"error,omitempty"`
}

// DuplicateGroup is a set of two or more paths proven content-identical.
// Hash equality is treated as content equality; with a 128+ bit digest the
// collision probability is negligible at realistic corpus sizes, but the
// guarantee is probabilistic, not absolute.
type DuplicateGroup struct {
	ContentHash string   `json:"hash"`
	Size        int64    `json:"size"`
	Paths       []string `json:"paths"`
}

// WastedBytes returns the bytes reclaimable by keeping a single copy.
func (g DuplicateGroup) WastedBytes() int64 {
	return g.Size * int64(len(g.Paths)-1)
}

// Stats tracks counters accumulated over a single scan.
type Stats struct {
	FilesSeen        int64         `json:"filesSeen"`
	DirsSeen         int64         `json:"dirsSeen"`
	SizeCandidates   int64         `json:"sizeCandidates"`
	PrefixCandidates int64         `json:"prefixCandidates"`
	BytesHashed      int64         `json:"bytesHashed"`
	Duration         time.Duration `json:"duration"`
}

// Result is the outcome of a completed scan: the duplicate groups found plus
// the partial-failure report of every skipped path. Groups are sorted by
// content hash and paths lexicographically within each group, so two scans of
// an unchanged tree produce identical results.
type Result struct {
	ScanID  uuid.UUID        `json:"scanId"`
	Root    string           `json:"root"`
	Groups  []DuplicateGroup `json:"groups"`
	Skipped []SkippedPath    `json:"skipped"`
	Stats   Stats            `json:"stats"`
}

// TotalWastedBytes sums reclaimable bytes across all groups.
func (r *Result) TotalWastedBytes() int64 {
	var total int64
	for _, g := range r.Groups {
		total += g.WastedBytes()
	}
	return total
}
