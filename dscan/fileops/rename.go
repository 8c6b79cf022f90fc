package fileops

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Characters that cannot appear in file names on at least one supported OS;
// scrubbed when composing new names.
var forbiddenNameChars = `<>:"/\|?*`

// RenamePlan records one planned old-to-new rename.
type RenamePlan struct {
	OldPath string `json:"old"`
	NewPath string `json:"new"`
}

// RenameName replaces old with new inside the final path component. It
// returns the plan without touching the filesystem when dryRun is set, and a
// zero plan when the name does not contain old.
func RenameName(path, old, new string, dryRun bool) (RenamePlan, error) {
	name := filepath.Base(path)
	if !strings.Contains(name, old) {
		return RenamePlan{}, nil
	}

	newPath := filepath.Join(filepath.Dir(path), strings.ReplaceAll(name, old, new))
	plan := RenamePlan{OldPath: path, NewPath: newPath}

	if dryRun {
		slog.Info("dry run rename", "old", path, "new", newPath)
		return plan, nil
	}
	if err := os.Rename(path, newPath); err != nil {
		return RenamePlan{}, fmt.Errorf("failed to rename %s: %w", path, err)
	}
	return plan, nil
}

// RenameStem replaces old with new inside the stem (name without extension),
// preserving the extension.
func RenameStem(path, old, new string, dryRun bool) (RenamePlan, error) {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if !strings.Contains(stem, old) {
		return RenamePlan{}, nil
	}

	newName := strings.ReplaceAll(stem, old, new) + ext
	newPath := filepath.Join(filepath.Dir(path), newName)
	plan := RenamePlan{OldPath: path, NewPath: newPath}

	if dryRun {
		slog.Info("dry run rename", "old", path, "new", newPath)
		return plan, nil
	}
	if err := os.Rename(path, newPath); err != nil {
		return RenamePlan{}, fmt.Errorf("failed to rename %s: %w", path, err)
	}
	return plan, nil
}

// SafeOSName strips characters forbidden by any supported OS from a name.
func SafeOSName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if !strings.ContainsRune(forbiddenNameChars, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RandomStem returns a random hex string usable as a collision-free
// intermediate file stem.
func RandomStem(bytes int) string {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}
