package codecs

import (
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/engine/codec"
)

// projectCodec writes a project as its path. Project state belongs to the build and is
// looked up again when the entry is loaded.
type projectCodec struct{}

func (projectCodec) Encode(ctx *codec.WriteContext, v any) error {
	p := v.(*domain.Project)
	return ctx.EncodePreservingIdentityOf(p, func() error {
		return ctx.WriteString(p.Path)
	})
}

func (projectCodec) Decode(ctx *codec.ReadContext) (any, error) {
	return ctx.DecodePreservingIdentity(func(int) (any, error) {
		path, err := ctx.ReadString()
		if err != nil {
			return nil, err
		}
		return ctx.Project(path)
	})
}
