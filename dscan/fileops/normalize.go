package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// NormalizeOptions configures sequential file-name normalization.
type NormalizeOptions struct {
	Prefix         string // Optional leading stem part
	Separator      string // Joins stem parts (default "_")
	KeepFolderName bool   // Include the parent folder name as a stem part
	UseCaptureDate bool   // Include the EXIF capture date when available
	DryRun         bool   // Plan without renaming
}

// NormalizeStep records the two-phase rename of one file: the original path,
// the random intermediate used to avoid collisions, and the final path.
type NormalizeStep struct {
	OldPath    string `json:"old_path"`
	MiddlePath string `json:"middle_path"`
	NewPath    string `json:"new_path"`
}

// NormalizeNames renames the given files to sequential, OS-safe names
// (prefix_folder_date_001.ext, ...). Renaming goes through a random
// intermediate stem so a final name colliding with a not-yet-renamed source
// cannot clobber it.
func NormalizeNames(paths []string, opts NormalizeOptions) ([]NormalizeStep, error) {
	if opts.Separator == "" {
		opts.Separator = "_"
	}

	ordered := append([]string(nil), paths...)
	sort.Strings(ordered)
	digits := len(fmt.Sprintf("%d", len(ordered)))

	steps := make([]NormalizeStep, 0, len(ordered))
	for idx, path := range ordered {
		ext := filepath.Ext(path)
		dir := filepath.Dir(path)

		var parts []string
		if opts.Prefix != "" {
			parts = append(parts, opts.Prefix)
		}
		if opts.KeepFolderName {
			parts = append(parts, filepath.Base(dir))
		}
		if opts.UseCaptureDate {
			if date := CaptureDate(path); date != "" {
				parts = append(parts, date)
			}
		}
		parts = append(parts, fmt.Sprintf("%0*d", digits, idx+1))

		newStem := SafeOSName(strings.Trim(strings.Join(parts, opts.Separator), opts.Separator))
		steps = append(steps, NormalizeStep{
			OldPath:    path,
			MiddlePath: filepath.Join(dir, RandomStem(7)+ext),
			NewPath:    filepath.Join(dir, newStem+ext),
		})
	}

	if opts.DryRun {
		return steps, nil
	}

	// Phase one: move everything aside, then phase two: settle final names.
	for _, step := range steps {
		if err := rename(step.OldPath, step.MiddlePath); err != nil {
			return steps, err
		}
	}
	for _, step := range steps {
		if err := rename(step.MiddlePath, step.NewPath); err != nil {
			return steps, err
		}
	}
	return steps, nil
}

func rename(old, new string) error {
	if err := os.Rename(old, new); err != nil {
		return fmt.Errorf("failed to rename %s: %w", old, err)
	}
	return nil
}
