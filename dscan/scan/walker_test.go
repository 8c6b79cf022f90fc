package scan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walkAll(t *testing.T, root string, patterns []string) ([]FileDescriptor, []SkippedPath) {
	t.Helper()
	var stats Stats
	files, skipped, err := NewWalker(4, patterns).Walk(context.Background(), root, &stats)
	require.NoError(t, err)
	return files, skipped
}

func TestListFiles_AppliesIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.txt", []byte("k"))
	writeFile(t, dir, "node_modules/skip.js", []byte("s"))

	files, skipped, err := ListFiles(context.Background(), dir, Options{IgnorePatterns: []string{"node_modules"}})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "keep.txt"), files[0].Path)
}

func TestWalker_FindsNestedRegularFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "top.txt", []byte("top"))
	writeFile(t, dir, "a/mid.txt", []byte("mid"))
	writeFile(t, dir, "a/b/c/deep.txt", []byte("deep"))

	files, skipped := walkAll(t, dir, nil)
	assert.Empty(t, skipped)

	paths := descriptorPaths(files)
	sort.Strings(paths)
	assert.Equal(t, []string{
		filepath.Join(dir, "a", "b", "c", "deep.txt"),
		filepath.Join(dir, "a", "mid.txt"),
		filepath.Join(dir, "top.txt"),
	}, paths)

	for _, fd := range files {
		assert.Greater(t, fd.Size, int64(0))
	}
}

func TestWalker_SkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "target.txt", []byte("real"))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link.txt")))
	require.NoError(t, os.Symlink(dir, filepath.Join(dir, "loop")))

	files, skipped := walkAll(t, dir, nil)
	assert.Empty(t, skipped)
	require.Len(t, files, 1)
	assert.Equal(t, target, files[0].Path)
}

func TestWalker_IgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.txt", []byte("keep"))
	writeFile(t, dir, "node_modules/dep.js", []byte("dep"))
	writeFile(t, dir, "trace.log", []byte("log"))

	files, _ := walkAll(t, dir, []string{"node_modules", "*.log"})
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "keep.txt"), files[0].Path)
}

func TestWalker_RestartableWithoutSharedState(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/one", []byte("1"))
	writeFile(t, dir, "b/two", []byte("22"))

	w := NewWalker(4, nil)
	var stats Stats
	first, _, err := w.Walk(context.Background(), dir, &stats)
	require.NoError(t, err)
	second, _, err := w.Walk(context.Background(), dir, &stats)
	require.NoError(t, err)

	sort.Slice(first, func(i, j int) bool { return first[i].Path < first[j].Path })
	sort.Slice(second, func(i, j int) bool { return second[i].Path < second[j].Path })
	assert.Equal(t, first, second)
}

func TestBucketBySize(t *testing.T) {
	buckets := bucketBySize([]FileDescriptor{
		{Path: "/a", Size: 10},
		{Path: "/b", Size: 10},
		{Path: "/c", Size: 7},
		{Path: "/d", Size: 0},
		{Path: "/e", Size: 0},
	})

	require.Len(t, buckets, 2)
	assert.Len(t, buckets[10], 2)
	assert.Len(t, buckets[0], 2)
	_, ok := buckets[7]
	assert.False(t, ok, "unique size must be discarded")
}
