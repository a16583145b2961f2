package files

import (
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/zerr"
)

type lazy struct {
	name    string
	resolve func() (domain.FileCollection, error)
}

// Lazy returns a collection computed by resolve on each use.
// Resolution failures surface from both Files and VisitStructure.
func Lazy(name string, resolve func() (domain.FileCollection, error)) domain.FileCollection {
	return &lazy{name: name, resolve: resolve}
}

func (l *lazy) get() (domain.FileCollection, error) {
	c, err := l.resolve()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "cannot resolve file collection"), "collection", l.name)
	}
	return c, nil
}

func (l *lazy) Files() ([]string, error) {
	c, err := l.get()
	if err != nil {
		return nil, err
	}
	return c.Files()
}

func (l *lazy) VisitStructure(v domain.FileStructureVisitor) error {
	c, err := l.get()
	if err != nil {
		return err
	}
	return c.VisitStructure(v)
}
