package files

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"go.trai.ch/cfgcache/internal/core/domain"
)

type tree struct {
	dir  string
	spec domain.PatternSet
}

// Tree returns the regular files below dir selected by spec.
// Patterns are matched against paths relative to dir. A missing directory is empty.
func Tree(dir string, spec domain.PatternSet) domain.FileCollection {
	return &tree{dir: dir, spec: spec}
}

func (t *tree) Files() ([]string, error) {
	var out []string
	var walkErr error
	for path, err := range walkFiles(t.dir) {
		if err != nil {
			walkErr = err
			break
		}
		rel, err := filepath.Rel(t.dir, path)
		if err != nil {
			return nil, err
		}
		if t.spec.Matches(rel) {
			out = append(out, path)
		}
	}
	if errors.Is(walkErr, fs.ErrNotExist) {
		return nil, nil
	}
	return out, walkErr
}

func (t *tree) VisitStructure(v domain.FileStructureVisitor) error {
	v.VisitTree(t.dir, t.spec)
	return nil
}

// walkFiles yields all files below root, skipping version control directories.
func walkFiles(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if _, err := os.Stat(root); err != nil {
			yield("", err)
			return
		}
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield("", err) {
					return filepath.SkipAll
				}
				return nil
			}

			if d.IsDir() {
				if name := d.Name(); path != root && (name == ".git" || name == ".jj") {
					return filepath.SkipDir
				}
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}

			return nil
		})
	}
}
