package filter

import (
	"testing"

	"github.com/diskscan/diskscan/dscan/scan"
	"github.com/stretchr/testify/assert"
)

var sample = []scan.FileDescriptor{
	{Path: "/media/clip.MP4", Size: 5 << 20},
	{Path: "/media/photo.jpg", Size: 2 << 20},
	{Path: "/docs/report.pdf", Size: 100},
	{Path: "/docs/.DS_Store", Size: 50},
	{Path: "/docs/._report.pdf", Size: 50},
}

func TestSizeFilters(t *testing.T) {
	big := LargerThan(sample, 1<<20)
	assert.Len(t, big, 2)

	small := SmallerThan(sample, 1<<20)
	assert.Len(t, small, 3)
}

func TestSuffixFilters(t *testing.T) {
	// "mp4" without a dot and in the wrong case still matches.
	media := IncludeSuffixes(sample, []string{"mp4", ".JPG"})
	assert.Len(t, media, 2)

	rest := ExcludeSuffixes(sample, []string{".pdf"})
	assert.Len(t, rest, 3)

	assert.Empty(t, IncludeSuffixes(sample, []string{"  ", ""}))
}

func TestNameContains(t *testing.T) {
	hit := NameContains(sample, []string{"report"}, nil)
	assert.Len(t, hit, 2)

	hit = NameContains(sample, []string{"report"}, []string{"._"})
	assert.Len(t, hit, 1)
	assert.Equal(t, "/docs/report.pdf", hit[0].Path)
}

func TestExcludeSystemFiles(t *testing.T) {
	kept := ExcludeSystemFiles(sample)
	assert.Len(t, kept, 3)
	for _, fd := range kept {
		assert.False(t, fd.IsSystemFile())
	}
}

func TestCountSuffixes(t *testing.T) {
	counts := CountSuffixes(sample)
	assert.Equal(t, 1, counts[".mp4"])
	assert.Equal(t, 2, counts[".pdf"])
}

func TestSortByParentLength(t *testing.T) {
	paths := []string{"/a/b/c/file", "/a/file", "/a/b/file"}
	SortByParentLength(paths)
	assert.Equal(t, []string{"/a/file", "/a/b/file", "/a/b/c/file"}, paths)
}

func TestSortNatural(t *testing.T) {
	paths := []string{"img10.jpg", "img2.jpg", "img1.jpg", "cover.jpg"}
	SortNatural(paths)
	assert.Equal(t, []string{"cover.jpg", "img1.jpg", "img2.jpg", "img10.jpg"}, paths)
}
