// Package output serializes scan results for display or persistence.
//
// The persisted JSON layout, a mapping keyed by content hash with each value
// an ordered list of paths, is the contract the removal front-ends depend on.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/diskscan/diskscan/dscan/scan"
)

// Sink consumes a completed scan result.
type Sink interface {
	WriteResult(result *scan.Result) error
}

// NewSink selects a sink implementation by configured format.
func NewSink(format, path string, w io.Writer) (Sink, error) {
	switch format {
	case "console", "":
		return NewConsoleSink(w), nil
	case "json":
		if path == "" {
			return nil, fmt.Errorf("json output requires a target path")
		}
		return NewJSONSink(path), nil
	default:
		return nil, fmt.Errorf("unknown output format: %q", format)
	}
}

// ConsoleSink writes a human-readable grouped listing.
type ConsoleSink struct {
	w io.Writer
}

// NewConsoleSink creates a console sink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

// WriteResult prints each duplicate group as its hash followed by the member
// paths, then the skipped-path report.
func (s *ConsoleSink) WriteResult(result *scan.Result) error {
	rule := strings.Repeat("-", 32)
	for _, group := range result.Groups {
		fmt.Fprintln(s.w, group.ContentHash)
		for _, path := range group.Paths {
			fmt.Fprintln(s.w, path)
		}
		fmt.Fprintln(s.w, rule)
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(s.w, "skipped %d path(s):\n", len(result.Skipped))
		for _, sp := range result.Skipped {
			fmt.Fprintf(s.w, "  %s (%s)\n", sp.Path, sp.Reason)
		}
	}

	fmt.Fprintf(s.w, "%d duplicate group(s), %d byte(s) reclaimable\n",
		len(result.Groups), result.TotalWastedBytes())
	return nil
}

// JSONSink persists the canonical hash-to-paths mapping to a file.
type JSONSink struct {
	path string
}

// NewJSONSink creates a JSON file sink.
func NewJSONSink(path string) *JSONSink {
	return &JSONSink{path: path}
}

func (s *JSONSink) WriteResult(result *scan.Result) error {
	mapping := make(map[string][]string, len(result.Groups))
	for _, group := range result.Groups {
		mapping[group.ContentHash] = group.Paths
	}

	// Map keys marshal in sorted order, keeping the artifact deterministic.
	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode duplicate groups: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

// ReadGroupsFile loads a persisted hash-to-paths mapping.
func ReadGroupsFile(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var mapping map[string][]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return mapping, nil
}

// PathList is the JSON shape used by the path-listing commands.
type PathList struct {
	Paths []string `json:"paths"`
}

// WritePathList persists a plain list of paths.
func WritePathList(path string, paths []string) error {
	data, err := json.MarshalIndent(PathList{Paths: paths}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode path list: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadPathList loads a persisted path list.
func ReadPathList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var list PathList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return list.Paths, nil
}
