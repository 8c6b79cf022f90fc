package scan

import (
	"path/filepath"
	"strings"

	radix "github.com/armon/go-radix"
)

// Index provides fast path and subtree lookups over a scan result, backed by
// a radix tree keyed on the member paths. The removal front-ends use it to
// answer "which duplicate groups live under this directory" without rescanning.
type Index struct {
	tree *radix.Tree
}

// Index builds a path index over the result's duplicate groups.
func (r *Result) Index() *Index {
	tree := radix.New()
	for i := range r.Groups {
		group := &r.Groups[i]
		for _, path := range group.Paths {
			tree.Insert(path, group)
		}
	}
	return &Index{tree: tree}
}

// Lookup returns the duplicate group containing the exact path, if any.
func (ix *Index) Lookup(path string) (*DuplicateGroup, bool) {
	v, ok := ix.tree.Get(path)
	if !ok {
		return nil, false
	}
	return v.(*DuplicateGroup), true
}

// GroupsUnder returns every duplicate group with at least one member below
// dir, each group reported once, in insertion (content hash) order.
func (ix *Index) GroupsUnder(dir string) []*DuplicateGroup {
	prefix := strings.TrimSuffix(dir, string(filepath.Separator)) + string(filepath.Separator)

	seen := make(map[string]bool)
	var groups []*DuplicateGroup
	ix.tree.WalkPrefix(prefix, func(path string, v interface{}) bool {
		group := v.(*DuplicateGroup)
		if !seen[group.ContentHash] {
			seen[group.ContentHash] = true
			groups = append(groups, group)
		}
		return false
	})
	return groups
}

// Len returns the number of indexed paths.
func (ix *Index) Len() int {
	return ix.tree.Len()
}
