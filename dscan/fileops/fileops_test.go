package fileops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestRemoveFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "victim", []byte("x"))

	// Dry run leaves the file in place.
	require.NoError(t, RemoveFile(path, true))
	assert.FileExists(t, path)

	require.NoError(t, RemoveFile(path, false))
	assert.NoFileExists(t, path)

	// Vanished file is not an error.
	require.NoError(t, RemoveFile(path, false))

	// Directories are refused.
	err := RemoveFile(dir, false)
	assert.ErrorIs(t, err, ErrNotAFile)
}

func TestRemoveDir(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "outer")
	writeFile(t, nested, "inner/file", []byte("x"))

	// Non-empty without recursive is refused.
	err := RemoveDir(nested, false, false)
	assert.ErrorIs(t, err, ErrDirNotEmpty)

	require.NoError(t, RemoveDir(nested, true, true))
	assert.DirExists(t, nested)

	require.NoError(t, RemoveDir(nested, true, false))
	assert.NoDirExists(t, nested)
}

func TestRemoveDir_JunkOnlyCountsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	junky := filepath.Join(dir, "junky")
	writeFile(t, junky, ".DS_Store", []byte("junk"))
	writeFile(t, junky, "._shadow", []byte("junk"))

	// Junk files alone do not make the directory non-empty.
	require.NoError(t, RemoveDir(junky, false, false))
	assert.NoDirExists(t, junky)
}

func TestEmptyDirDetection(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.MkdirAll(empty, 0o755))

	almost := filepath.Join(dir, "almost")
	writeFile(t, dir, "almost/.DS_Store", []byte("junk"))
	writeFile(t, dir, "almost/._shadow", []byte("junk"))

	full := filepath.Join(dir, "full")
	writeFile(t, dir, "full/real.txt", []byte("data"))

	ok, err := IsEmptyDir(empty)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsAlmostEmptyDir(almost)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsAlmostEmptyDir(full)
	require.NoError(t, err)
	assert.False(t, ok)

	empties, err := FindEmptyDirs(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{empty, almost}, empties)
}

func TestRenameName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "IMG_001 copy.jpg", []byte("x"))

	plan, err := RenameName(path, " copy", "", true)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "IMG_001.jpg"), plan.NewPath)
	assert.FileExists(t, path)

	plan, err = RenameName(path, " copy", "", false)
	require.NoError(t, err)
	assert.NoFileExists(t, path)
	assert.FileExists(t, plan.NewPath)

	// No match yields a zero plan.
	plan, err = RenameName(plan.NewPath, "zzz", "x", false)
	require.NoError(t, err)
	assert.Empty(t, plan.OldPath)
}

func TestRenameStem(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "draft.v1.txt", []byte("x"))

	plan, err := RenameStem(path, "draft", "final", false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "final.v1.txt"), plan.NewPath)
	assert.FileExists(t, plan.NewPath)
}

func TestSafeOSName(t *testing.T) {
	assert.Equal(t, "ab cd", SafeOSName(`a<b> c:d?*`))
	assert.Equal(t, "plain", SafeOSName("plain"))
}

func TestNormalizeNames(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "zzz.jpg", []byte("3")),
		writeFile(t, dir, "aaa.jpg", []byte("1")),
		writeFile(t, dir, "mmm.jpg", []byte("2")),
	}

	steps, err := NormalizeNames(paths, NormalizeOptions{Prefix: "trip", DryRun: true})
	require.NoError(t, err)
	require.Len(t, steps, 3)
	// Steps follow lexicographic order of the originals.
	assert.Equal(t, filepath.Join(dir, "trip_1.jpg"), steps[0].NewPath)
	assert.Equal(t, filepath.Base(steps[0].OldPath), "aaa.jpg")
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	steps, err = NormalizeNames(paths, NormalizeOptions{Prefix: "trip", KeepFolderName: true})
	require.NoError(t, err)
	for _, step := range steps {
		assert.NoFileExists(t, step.OldPath)
		assert.FileExists(t, step.NewPath)
		assert.Contains(t, filepath.Base(step.NewPath), filepath.Base(dir))
	}
}
