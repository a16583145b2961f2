package domain

import (
	"path/filepath"
	"strings"
)

// FileCollection is a lazily evaluated set of file paths.
// Files resolves the collection; VisitStructure describes how it is composed without resolving it.
type FileCollection interface {
	Files() ([]string, error)
	VisitStructure(v FileStructureVisitor) error
}

// FileStructureVisitor receives the leaves of a file collection's composition.
type FileStructureVisitor interface {
	VisitLiteral(paths []string)
	VisitSubtract(left, right FileCollection)
	VisitFilter(source FileCollection, spec PatternSet)
	VisitProvider(p FileProvider)
	VisitTree(dir string, spec PatternSet)
	VisitTransformed(source FileCollection, transform string)
}

// FileProvider supplies a path, a list of paths or a collection when asked.
type FileProvider interface {
	Get() (any, error)
}

// PatternSet selects paths by glob patterns. An empty include list selects everything.
type PatternSet struct {
	Includes []string
	Excludes []string
}

// IsEmpty reports whether the set selects every path.
func (p PatternSet) IsEmpty() bool {
	return len(p.Includes) == 0 && len(p.Excludes) == 0
}

// Matches reports whether path is selected. Patterns are matched against both the
// slash-separated path and its base name.
func (p PatternSet) Matches(path string) bool {
	for _, pattern := range p.Excludes {
		if matchPattern(pattern, path) {
			return false
		}
	}
	if len(p.Includes) == 0 {
		return true
	}
	for _, pattern := range p.Includes {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, path string) bool {
	slashed := filepath.ToSlash(path)
	if ok, _ := filepath.Match(pattern, slashed); ok {
		return true
	}
	if strings.Contains(pattern, "/") {
		return false
	}
	ok, _ := filepath.Match(pattern, filepath.Base(slashed))
	return ok
}
