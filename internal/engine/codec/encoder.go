package codec

import (
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
)

// WriteContext is the state of one encoding pass.
// Values go through the codec of the top frame; reference identities are tracked in the
// top frame's isolate, while classes, scopes, strings and pass-wide objects share
// tables that no isolate hides.
type WriteContext struct {
	enc    *msgpack.Encoder
	frames []writeFrame

	classes *WriteIdentities
	scopes  *WriteIdentities
	global  *WriteIdentities
	strings map[string]int

	scopeLookup ports.ScopeLookup
	problems    ports.ProblemsListener
	logger      ports.Logger

	trace    *domain.PropertyTrace
	failedAt *domain.PropertyTrace
}

func newWriteContext(enc *msgpack.Encoder, owner any, o *options) *WriteContext {
	return &WriteContext{
		enc:         enc,
		frames:      []writeFrame{{codec: o.registry, isolate: newWriteIsolate(owner)}},
		classes:     NewWriteIdentities(),
		scopes:      NewWriteIdentities(),
		global:      NewWriteIdentities(),
		strings:     make(map[string]int),
		scopeLookup: o.scopeLookup,
		problems:    o.problems,
		logger:      o.logger,
	}
}

func (c *WriteContext) top() *writeFrame {
	return &c.frames[len(c.frames)-1]
}

// Write encodes v with the active codec.
func (c *WriteContext) Write(v any) error {
	return c.top().codec.Encode(c, v)
}

// Push makes codec the active value codec. The current isolate stays in effect.
func (c *WriteContext) Push(codec Codec) {
	c.frames = append(c.frames, writeFrame{codec: codec, isolate: c.top().isolate})
}

// PushIsolate makes codec the active value codec and opens a private identity table for owner.
func (c *WriteContext) PushIsolate(owner any, codec Codec) {
	c.frames = append(c.frames, writeFrame{codec: codec, isolate: newWriteIsolate(owner)})
}

// Pop restores the frame that was active before the last Push or PushIsolate.
// The root frame is never popped.
func (c *WriteContext) Pop() {
	if len(c.frames) > 1 {
		c.frames = c.frames[:len(c.frames)-1]
	}
}

// Isolate returns the active isolate.
func (c *WriteContext) Isolate() *WriteIsolate {
	return c.top().isolate
}

// Logger returns the pass logger, which may be nil.
func (c *WriteContext) Logger() ports.Logger {
	return c.logger
}

// EncodePreservingIdentityOf writes a back-reference when v was already written in the
// active isolate. Otherwise it assigns v the next id, writes it as a first occurrence and
// runs body to write v's contents.
func (c *WriteContext) EncodePreservingIdentityOf(v any, body func() error) error {
	ids := c.Isolate().identities
	if id, ok := ids.GetID(v); ok {
		return c.enc.EncodeInt(backReference(id))
	}
	id := ids.PutInstance(v)
	if err := c.enc.EncodeInt(firstOccurrence(id)); err != nil {
		return err
	}
	return body()
}

// EncodePreservingGlobalIdentityOf is EncodePreservingIdentityOf against the pass-wide
// table, so v keeps one identity no matter which isolate reaches it.
func (c *WriteContext) EncodePreservingGlobalIdentityOf(v any, body func() error) error {
	return c.encodeShared(c.global, v, body)
}

func (c *WriteContext) encodeShared(table *WriteIdentities, v any, body func() error) error {
	if id, ok := table.GetID(v); ok {
		return c.enc.EncodeInt(backReference(id))
	}
	id := table.PutInstance(v)
	if err := c.enc.EncodeInt(firstOccurrence(id)); err != nil {
		return err
	}
	return body()
}

// WriteBool writes a boolean.
func (c *WriteContext) WriteBool(v bool) error { return c.enc.EncodeBool(v) }

// WriteInt writes a signed integer in its most compact form.
func (c *WriteContext) WriteInt(v int64) error { return c.enc.EncodeInt(v) }

// WriteSmallInt writes an int, typically a length or a small enumeration value.
func (c *WriteContext) WriteSmallInt(v int) error { return c.enc.EncodeInt(int64(v)) }

// WriteUint writes an unsigned integer in its most compact form.
func (c *WriteContext) WriteUint(v uint64) error { return c.enc.EncodeUint(v) }

// WriteFloat32 writes a single precision float.
func (c *WriteContext) WriteFloat32(v float32) error { return c.enc.EncodeFloat32(v) }

// WriteFloat64 writes a double precision float.
func (c *WriteContext) WriteFloat64(v float64) error { return c.enc.EncodeFloat64(v) }

// WriteBytes writes a byte string.
func (c *WriteContext) WriteBytes(v []byte) error { return c.enc.EncodeBytes(v) }

// WriteString writes s through the pass-wide string table.
func (c *WriteContext) WriteString(s string) error {
	if id, ok := c.strings[s]; ok {
		return c.enc.EncodeInt(backReference(id))
	}
	id := len(c.strings)
	c.strings[s] = id
	if err := c.enc.EncodeInt(firstOccurrence(id)); err != nil {
		return err
	}
	return c.enc.EncodeString(s)
}

// WriteStrings writes a length-prefixed list of strings.
func (c *WriteContext) WriteStrings(list []string) error {
	if err := c.WriteSmallInt(len(list)); err != nil {
		return err
	}
	for _, s := range list {
		if err := c.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

// WithProperty runs fn with the property trace extended by one step.
func (c *WriteContext) WithProperty(kind domain.TraceKind, name, owner string, fn func() error) error {
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
func (c *WriteContext) Trace() *domain.PropertyTrace {
	return c.trace
}

// OnProblem reports a recoverable problem at the current property trace.
func (c *WriteContext) OnProblem(message string) {
	reportProblem(c.problems, c.logger, c.trace, message)
}

// OnError reports a failure that was replaced by a placeholder at the current property trace.
func (c *WriteContext) OnError(err error, message string) {
	reportError(c.problems, c.logger, c.trace, err, message)
}

// encodeReflected writes the value held by v, or null for an invalid Value.
func (c *WriteContext) encodeReflected(v reflect.Value) error {
	if !v.IsValid() {
		return c.Write(nil)
	}
	return c.Write(v.Interface())
}

func firstOccurrence(id int) int64 { return int64(id)<<1 | 1 }

func backReference(id int) int64 { return int64(id) << 1 }
