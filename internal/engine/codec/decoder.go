package codec

import (
	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// ReadContext is the state of one decoding pass. It mirrors WriteContext: decoders must
// push and pop frames and isolates at exactly the points their encoders did.
type ReadContext struct {
	dec    *msgpack.Decoder
	frames []readFrame

	classes *ReadIdentities
	scopes  *ReadIdentities
	global  *ReadIdentities
	strings []string

	scopeFactory ports.ScopeFactory
	rootLoader   ports.TypeLoader
	projects     ports.ProjectProvider
	problems     ports.ProblemsListener
	logger       ports.Logger

	trace    *domain.PropertyTrace
	failedAt *domain.PropertyTrace
}

func newReadContext(dec *msgpack.Decoder, owner any, o *options) *ReadContext {
	return &ReadContext{
		dec:          dec,
		frames:       []readFrame{{codec: o.registry, isolate: newReadIsolate(owner)}},
		classes:      NewReadIdentities(),
		scopes:       NewReadIdentities(),
		global:       NewReadIdentities(),
		scopeFactory: o.scopeFactory,
		rootLoader:   o.typeLoader,
		projects:     o.projects,
		problems:     o.problems,
		logger:       o.logger,
	}
}

func (c *ReadContext) top() *readFrame {
	return &c.frames[len(c.frames)-1]
}

// Read decodes the next value with the active codec.
func (c *ReadContext) Read() (any, error) {
	return c.top().codec.Decode(c)
}

// Push makes codec the active value codec. The current isolate stays in effect.
func (c *ReadContext) Push(codec Codec) {
	c.frames = append(c.frames, readFrame{codec: codec, isolate: c.top().isolate})
}

// PushIsolate makes codec the active value codec and opens a private identity table for owner.
func (c *ReadContext) PushIsolate(owner any, codec Codec) {
	c.frames = append(c.frames, readFrame{codec: codec, isolate: newReadIsolate(owner)})
}

// Pop restores the frame that was active before the last Push or PushIsolate.
func (c *ReadContext) Pop() {
	if len(c.frames) > 1 {
		c.frames = c.frames[:len(c.frames)-1]
	}
}

// Isolate returns the active isolate.
func (c *ReadContext) Isolate() *ReadIsolate {
	return c.top().isolate
}

// Logger returns the pass logger, which may be nil.
func (c *ReadContext) Logger() ports.Logger {
	return c.logger
}

// Project resolves a project path through the configured provider.
func (c *ReadContext) Project(path string) (*domain.Project, error) {
	if c.projects == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrProjectNotFound, "no project provider"), "path", path)
	}
	return c.projects.Project(path)
}

// DecodePreservingIdentity reads an identity tag. A back-reference yields the instance
// registered under its id. A first occurrence runs body, which should register the new
// instance with RegisterInstance before decoding anything that may refer back to it.
// If body does not register, its result is registered when it returns.
func (c *ReadContext) DecodePreservingIdentity(body func(id int) (any, error)) (any, error) {
	return c.decodeShared(c.Isolate().identities, body)
}

// DecodePreservingGlobalIdentity reads a tag written by EncodePreservingGlobalIdentityOf.
// body registers the new instance with RegisterGlobalInstance.
func (c *ReadContext) DecodePreservingGlobalIdentity(body func(id int) (any, error)) (any, error) {
	return c.decodeShared(c.global, body)
}

func (c *ReadContext) decodeShared(table *ReadIdentities, body func(id int) (any, error)) (any, error) {
	tag, err := c.dec.DecodeInt64()
	if err != nil {
		return nil, err
	}
	id := int(tag >> 1)
	if tag&1 == 0 {
		v, ok := table.GetInstance(id)
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrDanglingReference, "cannot resolve back-reference"), "id", id)
		}
		return v, nil
	}
	if !table.Reserve(id) {
		return nil, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "identity out of sequence"), "id", id)
	}
	v, err := body(id)
	if err != nil {
		return nil, err
	}
	if _, ok := table.GetInstance(id); !ok {
		table.PutInstance(id, v)
	}
	return v, nil
}

// RegisterInstance registers v under id in the active isolate.
func (c *ReadContext) RegisterInstance(id int, v any) {
	c.Isolate().identities.PutInstance(id, v)
}

// RegisterGlobalInstance registers v under id in the pass-wide table.
func (c *ReadContext) RegisterGlobalInstance(id int, v any) {
	c.global.PutInstance(id, v)
}

// ReadBool reads a boolean.
func (c *ReadContext) ReadBool() (bool, error) { return c.dec.DecodeBool() }

// ReadInt reads a signed integer.
func (c *ReadContext) ReadInt() (int64, error) { return c.dec.DecodeInt64() }

// ReadSmallInt reads an int written by WriteSmallInt.
func (c *ReadContext) ReadSmallInt() (int, error) {
	v, err := c.dec.DecodeInt64()
	return int(v), err
}

// ReadLength reads a length and rejects negative values.
func (c *ReadContext) ReadLength() (int, error) {
	n, err := c.ReadSmallInt()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "negative length"), "length", n)
	}
	return n, nil
}

// ReadUint reads an unsigned integer.
func (c *ReadContext) ReadUint() (uint64, error) { return c.dec.DecodeUint64() }

// ReadFloat32 reads a single precision float.
func (c *ReadContext) ReadFloat32() (float32, error) { return c.dec.DecodeFloat32() }

// ReadFloat64 reads a double precision float.
func (c *ReadContext) ReadFloat64() (float64, error) { return c.dec.DecodeFloat64() }

// ReadBytes reads a byte string.
func (c *ReadContext) ReadBytes() ([]byte, error) { return c.dec.DecodeBytes() }

// ReadString reads a string written through the pass-wide string table.
func (c *ReadContext) ReadString() (string, error) {
	tag, err := c.dec.DecodeInt64()
	if err != nil {
		return "", err
	}
	id := int(tag >> 1)
	if tag&1 == 0 {
		if id < 0 || id >= len(c.strings) {
			return "", zerr.With(zerr.Wrap(domain.ErrDanglingReference, "cannot resolve string reference"), "id", id)
		}
		return c.strings[id], nil
	}
	if id != len(c.strings) {
		return "", zerr.With(zerr.Wrap(domain.ErrStreamCorrupted, "string table out of sequence"), "id", id)
	}
	s, err := c.dec.DecodeString()
	if err != nil {
		return "", err
	}
	c.strings = append(c.strings, s)
	return s, nil
}

// ReadStrings reads a list written by WriteStrings.
func (c *ReadContext) ReadStrings() ([]string, error) {
	n, err := c.ReadLength()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	list := make([]string, n)
	for i := range list {
		if list[i], err = c.ReadString(); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// WithProperty runs fn with the property trace extended by one step.
func (c *ReadContext) WithProperty(kind domain.TraceKind, name, owner string, fn func() error) error {
	prev := c.trace
	c.trace = prev.Child(kind, name, owner)
	err := fn()
	if err != nil && c.failedAt == nil {
		c.failedAt = c.trace
	}
	c.trace = prev
	return err
}

// Trace returns the current property trace.
func (c *ReadContext) Trace() *domain.PropertyTrace {
	return c.trace
}

// OnProblem reports a recoverable problem at the current property trace.
func (c *ReadContext) OnProblem(message string) {
	reportProblem(c.problems, c.logger, c.trace, message)
}

// OnError reports a failure that was replaced by a placeholder at the current property trace.
func (c *ReadContext) OnError(err error, message string) {
	reportError(c.problems, c.logger, c.trace, err, message)
}
