package remover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diskscan/diskscan/dscan/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedInteractor replays canned answers and records output.
type scriptedInteractor struct {
	answers []string
	next    int
	lines   []string
}

func (s *scriptedInteractor) Output(message string)           { s.lines = append(s.lines, message) }
func (s *scriptedInteractor) Warning(message string)          { s.lines = append(s.lines, message) }
func (s *scriptedInteractor) Error(message string, err error) { s.lines = append(s.lines, message) }

func (s *scriptedInteractor) Ask(prompt string) (string, error) {
	if s.next >= len(s.answers) {
		return "", nil
	}
	answer := s.answers[s.next]
	s.next++
	return answer, nil
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestAutomatic_KeepsFirstNaturalOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "img1.jpg", []byte("same"))
	b := writeFile(t, dir, "img10.jpg", []byte("same"))
	c := writeFile(t, dir, "img2.jpg", []byte("same"))

	term := &scriptedInteractor{}
	r := New(term, Options{})
	require.NoError(t, r.Automatic(map[string][]string{"hash": {b, c, a}}))

	assert.FileExists(t, a)
	assert.NoFileExists(t, b)
	assert.NoFileExists(t, c)
}

func TestAutomatic_DryRunLeavesFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", []byte("same"))
	b := writeFile(t, dir, "b", []byte("same"))

	r := New(&scriptedInteractor{}, Options{DryRun: true})
	require.NoError(t, r.Automatic(map[string][]string{"hash": {a, b}}))

	assert.FileExists(t, a)
	assert.FileExists(t, b)
}

func TestAutomatic_KeepLongestParent(t *testing.T) {
	dir := t.TempDir()
	shallow := writeFile(t, dir, "a.txt", []byte("same"))
	deep := writeFile(t, dir, "keep/me/here/a.txt", []byte("same"))

	r := New(&scriptedInteractor{}, Options{KeepLongestParent: true})
	require.NoError(t, r.Automatic(map[string][]string{"hash": {shallow, deep}}))

	assert.NoFileExists(t, shallow)
	assert.FileExists(t, deep)
}

func TestAutomatic_ExcludedSuffixNeverRemoved(t *testing.T) {
	dir := t.TempDir()
	keep := writeFile(t, dir, "a.txt", []byte("same"))
	preview := writeFile(t, dir, "b.lrprev", []byte("same"))

	r := New(&scriptedInteractor{}, Options{ExcludeSuffixes: []string{".lrprev"}})
	require.NoError(t, r.Automatic(map[string][]string{"hash": {keep, preview}}))

	// The group shrinks to a single candidate, so nothing is removed.
	assert.FileExists(t, keep)
	assert.FileExists(t, preview)
}

func TestInteractive(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "g1/a", []byte("one"))
	b := writeFile(t, dir, "g1/b", []byte("one"))
	c := writeFile(t, dir, "g2/c", []byte("two"))
	d := writeFile(t, dir, "g2/d", []byte("two"))

	// Keep index 1 of the first group, skip the second.
	term := &scriptedInteractor{answers: []string{"1", ""}}
	r := New(term, Options{})
	require.NoError(t, r.Interactive(map[string][]string{
		"aaaa": {a, b},
		"bbbb": {c, d},
	}))

	assert.NoFileExists(t, a)
	assert.FileExists(t, b)
	assert.FileExists(t, c)
	assert.FileExists(t, d)
}

func TestInteractive_OutOfRangeSkips(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", []byte("one"))
	b := writeFile(t, dir, "b", []byte("one"))

	term := &scriptedInteractor{answers: []string{"7"}}
	r := New(term, Options{})
	require.NoError(t, r.Interactive(map[string][]string{"hash": {a, b}}))

	assert.FileExists(t, a)
	assert.FileExists(t, b)
}

func TestRemoveDirs(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "victim")
	writeFile(t, dir, "victim/file", []byte("x"))

	r := New(&scriptedInteractor{}, Options{})
	require.NoError(t, r.RemoveDirs([]string{victim}, true))
	assert.NoDirExists(t, victim)
}

func TestFromResult(t *testing.T) {
	result := &scan.Result{
		Groups: []scan.DuplicateGroup{
			{ContentHash: "aaaa", Paths: []string{"/data/a1", "/data/a2"}},
			{ContentHash: "bbbb", Paths: []string{"/other/b1", "/other/b2"}},
		},
	}

	all := FromResult(result, "")
	assert.Len(t, all, 2)

	under := FromResult(result, "/data")
	require.Len(t, under, 1)
	assert.Equal(t, []string{"/data/a1", "/data/a2"}, under["aaaa"])
}

func TestRestrictToSubtree(t *testing.T) {
	groups := map[string][]string{
		"aaaa": {"/data/photos/a1", "/mnt/usb/a2"},
		"bbbb": {"/other/b1", "/other/b2"},
	}

	under := RestrictToSubtree(groups, "/data")
	require.Len(t, under, 1)
	assert.Equal(t, groups["aaaa"], under["aaaa"])

	assert.Len(t, RestrictToSubtree(groups, "/other"), 1)
	assert.Empty(t, RestrictToSubtree(groups, "/nowhere"))
}
