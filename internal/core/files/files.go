// Package files implements lazily evaluated, structurally composed file collections.
package files

import (
	"slices"

	"go.trai.ch/cfgcache/internal/core/domain"
)

type literal struct {
	paths []string
}

// Of returns a collection of fixed paths.
func Of(paths ...string) domain.FileCollection {
	return &literal{paths: paths}
}

func (l *literal) Files() ([]string, error) {
	return slices.Clone(l.paths), nil
}

func (l *literal) VisitStructure(v domain.FileStructureVisitor) error {
	v.VisitLiteral(l.paths)
	return nil
}

type union struct {
	elements []domain.FileCollection
}

// Union returns the ordered union of the given collections. Duplicate paths are reported once.
func Union(elements ...domain.FileCollection) domain.FileCollection {
	if len(elements) == 1 {
		return elements[0]
	}
	return &union{elements: elements}
}

func (u *union) Files() ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range u.elements {
		paths, err := e.Files()
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}

func (u *union) VisitStructure(v domain.FileStructureVisitor) error {
	for _, e := range u.elements {
		if err := e.VisitStructure(v); err != nil {
			return err
		}
	}
	return nil
}

type subtraction struct {
	left, right domain.FileCollection
}

// Subtract returns the paths of left that are not in right.
func Subtract(left, right domain.FileCollection) domain.FileCollection {
	return &subtraction{left: left, right: right}
}

func (s *subtraction) Files() ([]string, error) {
	keep, err := s.left.Files()
	if err != nil {
		return nil, err
	}
	drop, err := s.right.Files()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(keep, func(p string) bool {
		return slices.Contains(drop, p)
	}), nil
}

func (s *subtraction) VisitStructure(v domain.FileStructureVisitor) error {
	v.VisitSubtract(s.left, s.right)
	return nil
}

type filtered struct {
	source domain.FileCollection
	spec   domain.PatternSet
}

// Filter returns the paths of source selected by spec.
func Filter(source domain.FileCollection, spec domain.PatternSet) domain.FileCollection {
	return &filtered{source: source, spec: spec}
}

func (f *filtered) Files() ([]string, error) {
	paths, err := f.source.Files()
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(paths, func(p string) bool {
		return !f.spec.Matches(p)
	}), nil
}

func (f *filtered) VisitStructure(v domain.FileStructureVisitor) error {
	v.VisitFilter(f.source, f.spec)
	return nil
}

type broken struct {
	err error
}

// Broken returns a collection that fails with err whenever it is used.
func Broken(err error) domain.FileCollection {
	return &broken{err: err}
}

func (b *broken) Files() ([]string, error) {
	return nil, b.err
}

func (b *broken) VisitStructure(domain.FileStructureVisitor) error {
	return b.err
}
