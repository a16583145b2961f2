package codecs

import (
	"strconv"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/files"
	"go.trai.ch/cfgcache/internal/engine/codec"
	"go.trai.ch/zerr"
)

type elementKind uint8

const (
	elementLiteral elementKind = iota + 1
	elementSubtract
	elementFilter
	elementProvider
	elementTree
	elementTransformed
	elementBroken
)

// element is one leaf of a file collection's structure.
type element struct {
	kind      elementKind
	paths     []string
	left      domain.FileCollection
	right     domain.FileCollection
	spec      domain.PatternSet
	provider  domain.FileProvider
	dir       string
	transform string
	broken    *codec.BrokenValue
}

// structureRecorder collects the elements reported by FileCollection.VisitStructure.
type structureRecorder struct {
	elements []element
}

func (r *structureRecorder) VisitLiteral(paths []string) {
	r.elements = append(r.elements, element{kind: elementLiteral, paths: paths})
}

func (r *structureRecorder) VisitSubtract(left, right domain.FileCollection) {
	r.elements = append(r.elements, element{kind: elementSubtract, left: left, right: right})
}

func (r *structureRecorder) VisitFilter(source domain.FileCollection, spec domain.PatternSet) {
	r.elements = append(r.elements, element{kind: elementFilter, left: source, spec: spec})
}

func (r *structureRecorder) VisitProvider(p domain.FileProvider) {
	r.elements = append(r.elements, element{kind: elementProvider, provider: p})
}

func (r *structureRecorder) VisitTree(dir string, spec domain.PatternSet) {
	r.elements = append(r.elements, element{kind: elementTree, dir: dir, spec: spec})
}

func (r *structureRecorder) VisitTransformed(source domain.FileCollection, transform string) {
	r.elements = append(r.elements, element{kind: elementTransformed, left: source, transform: transform})
}

// fileCollectionCodec writes a file collection as the structure it is composed of, without
// resolving it. A collection whose structure cannot be visited is replaced by a broken
// collection that fails when it is used after loading.
type fileCollectionCodec struct{}

func (fileCollectionCodec) Encode(ctx *codec.WriteContext, v any) error {
	return ctx.EncodePreservingIdentityOf(v, func() error {
		rec := &structureRecorder{}
		if err := v.(domain.FileCollection).VisitStructure(rec); err != nil {
			ctx.OnError(err, "cannot visit file collection structure")
			rec.elements = []element{{kind: elementBroken, broken: codec.NewBrokenValue(err)}}
		}
		if err := ctx.WriteSmallInt(len(rec.elements)); err != nil {
			return err
		}
		for i, e := range rec.elements {
			if err := ctx.WithProperty(domain.TraceElement, strconv.Itoa(i), "", func() error {
				return writeElement(ctx, e)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeElement(ctx *codec.WriteContext, e element) error {
	if err := ctx.WriteSmallInt(int(e.kind)); err != nil {
		return err
	}
	switch e.kind {
	case elementLiteral:
		return ctx.WriteStrings(e.paths)
	case elementSubtract:
		if err := ctx.Write(e.left); err != nil {
			return err
		}
		return ctx.Write(e.right)
	case elementFilter:
		if err := ctx.Write(e.left); err != nil {
			return err
		}
		return writePatterns(ctx, e.spec)
	case elementProvider:
		return ctx.Write(e.provider)
	case elementTree:
		if err := ctx.WriteString(e.dir); err != nil {
			return err
		}
		return writePatterns(ctx, e.spec)
	case elementTransformed:
		if err := ctx.Write(e.left); err != nil {
			return err
		}
		return ctx.WriteString(e.transform)
	default:
		return ctx.Write(e.broken)
	}
}

func writePatterns(ctx *codec.WriteContext, spec domain.PatternSet) error {
	if err := ctx.WriteStrings(spec.Includes); err != nil {
		return err
	}
	return ctx.WriteStrings(spec.Excludes)
}

func (fileCollectionCodec) Decode(ctx *codec.ReadContext) (any, error) {
	return ctx.DecodePreservingIdentity(func(int) (any, error) {
		n, err := ctx.ReadLength()
		if err != nil {
			return nil, err
		}
		elements := make([]domain.FileCollection, 0, n)
		for i := range n {
			var fc domain.FileCollection
			if err := ctx.WithProperty(domain.TraceElement, strconv.Itoa(i), "", func() error {
				var err error
				fc, err = readElement(ctx)
				return err
			}); err != nil {
				return nil, err
			}
			elements = append(elements, fc)
		}
		return files.Union(elements...), nil
	})
}

func readElement(ctx *codec.ReadContext) (domain.FileCollection, error) {
	kind, err := ctx.ReadSmallInt()
	if err != nil {
		return nil, err
	}
	switch elementKind(kind) {
	case elementLiteral:
		paths, err := ctx.ReadStrings()
		if err != nil {
			return nil, err
		}
		return files.Of(paths...), nil
	case elementSubtract:
		left, err := readCollection(ctx)
		if err != nil {
			return nil, err
		}
		right, err := readCollection(ctx)
		if err != nil {
			return nil, err
		}
		return files.Subtract(left, right), nil
	case elementFilter:
		source, err := readCollection(ctx)
		if err != nil {
			return nil, err
		}
		spec, err := readPatterns(ctx)
		if err != nil {
			return nil, err
		}
		return files.Filter(source, spec), nil
	case elementProvider:
		p, err := readAs[domain.FileProvider](ctx)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return files.Of(), nil
		}
		return files.FromProvider(p), nil
	case elementTree:
		dir, err := ctx.ReadString()
		if err != nil {
			return nil, err
		}
		spec, err := readPatterns(ctx)
		if err != nil {
			return nil, err
		}
		return files.Tree(dir, spec), nil
	case elementTransformed:
		source, err := readCollection(ctx)
		if err != nil {
			return nil, err
		}
		name, err := ctx.ReadString()
		if err != nil {
			return nil, err
		}
		return files.Transform(source, name), nil
	case elementBroken:
		bv, err := readAs[*codec.BrokenValue](ctx)
		if err != nil {
			return nil, err
		}
		if bv == nil {
			return nil, zerr.Wrap(domain.ErrStreamCorrupted, "broken file collection without a failure")
		}
		return files.Broken(bv.Rethrow()), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "unknown file collection element"), "kind", kind)
	}
}

// readCollection reads a nested collection. A null collection is empty.
func readCollection(ctx *codec.ReadContext) (domain.FileCollection, error) {
	fc, err := readAs[domain.FileCollection](ctx)
	if err != nil {
		return nil, err
	}
	if fc == nil {
		return files.Of(), nil
	}
	return fc, nil
}

func readPatterns(ctx *codec.ReadContext) (domain.PatternSet, error) {
	includes, err := ctx.ReadStrings()
	if err != nil {
		return domain.PatternSet{}, err
	}
	excludes, err := ctx.ReadStrings()
	if err != nil {
		return domain.PatternSet{}, err
	}
	return domain.PatternSet{Includes: includes, Excludes: excludes}, nil
}
