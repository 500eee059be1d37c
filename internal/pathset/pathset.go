//Package pathset holds the path list helpers shared by the tree comparison and the copy planning:
//hidden entries filtering, conversion between root-relative and absolute paths, and a set of unique paths.
package pathset

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

var ErrOutsideRoot = errors.New("path is outside of the root")

//IsHidden reports whether the entry name starts with the hidden prefix. An empty prefix hides nothing.
func IsHidden(name, hiddenPrefix string) bool {
	return hiddenPrefix != "" && strings.HasPrefix(name, hiddenPrefix)
}

//FilterHidden returns the names that are not hidden, keeping their order.
func FilterHidden(names []string, hiddenPrefix string) []string {
	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if !IsHidden(name, hiddenPrefix) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

//ToAbsolute joins every name to the root.
func ToAbsolute(root string, names []string) []string {
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(name)))
	}
	return paths
}

//Rel converts the path under root to a '/'-separated relative path.
func Rel(root, path string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("path %q cannot be made relative to %q: %w", path, root, err)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %q is not below %q", ErrOutsideRoot, path, root)
	}
	return rel, nil
}

//StripRoot converts every path to its root-relative form.
func StripRoot(root string, paths []string) ([]string, error) {
	rels := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := Rel(root, p)
		if err != nil {
			return nil, err
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

//Set is an unordered collection of unique paths.
type Set map[string]struct{}

func NewSet(paths ...string) Set {
	s := make(Set, len(paths))
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

func (s Set) Add(p string) {
	s[p] = struct{}{}
}

func (s Set) Has(p string) bool {
	_, ok := s[p]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

//Sorted returns the set content in lexical order.
func (s Set) Sorted() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
