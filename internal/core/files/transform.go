package files

import (
	"sync"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// TransformFunc maps one source file to the files it produces.
type TransformFunc func(path string) ([]string, error)

var transforms sync.Map // map[string]TransformFunc

// RegisterTransform makes fn available under name.
func RegisterTransform(name string, fn TransformFunc) {
	transforms.Store(name, fn)
}

type transformed struct {
	source    domain.FileCollection
	transform string
}

// Transform returns the files produced by applying the named transform to each file of source.
// The transform runs when the collection is resolved.
func Transform(source domain.FileCollection, name string) domain.FileCollection {
	return &transformed{source: source, transform: name}
}

func (t *transformed) Files() ([]string, error) {
	fn, ok := transforms.Load(t.transform)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrTransformNotFound, "cannot resolve transformed files"), "transform", t.transform)
	}
	paths, err := t.source.Files()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, p := range paths {
		produced, err := fn.(TransformFunc)(p)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "transform failed"), "transform", t.transform)
		}
		out = append(out, produced...)
	}
	return out, nil
}

func (t *transformed) VisitStructure(v domain.FileStructureVisitor) error {
	v.VisitTransformed(t.source, t.transform)
	return nil
}
