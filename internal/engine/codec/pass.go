package codec

import (
	"bufio"
	"errors"
	"io"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/cfgcache/internal/build"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	entryMagic = "CFGC"
	// FormatVersion is bumped whenever the stream layout changes.
	FormatVersion = 1
)

type options struct {
	registry     *Registry
	scopeLookup  ports.ScopeLookup
	scopeFactory ports.ScopeFactory
	typeLoader   ports.TypeLoader
	projects     ports.ProjectProvider
	problems     ports.ProblemsListener
	logger       ports.Logger
	producer     string
}

// Option configures a Writer or Reader.
type Option func(*options)

// WithRegistry sets the codec registry. Writer and Reader of one entry must use equal registries.
func WithRegistry(r *Registry) Option { return func(o *options) { o.registry = r } }

// WithScopeLookup sets the lookup used to record the scope of each written class.
func WithScopeLookup(l ports.ScopeLookup) Option { return func(o *options) { o.scopeLookup = l } }

// WithScopeFactory sets the factory used to rebuild scopes on read.
func WithScopeFactory(f ports.ScopeFactory) Option { return func(o *options) { o.scopeFactory = f } }

// WithTypeLoader sets the loader for classes written without a scope.
func WithTypeLoader(l ports.TypeLoader) Option { return func(o *options) { o.typeLoader = l } }

// WithProjects sets the provider that resolves project references on read.
func WithProjects(p ports.ProjectProvider) Option { return func(o *options) { o.projects = p } }

// WithProblems sets the listener for recoverable problems.
func WithProblems(l ports.ProblemsListener) Option { return func(o *options) { o.problems = l } }

// WithLogger sets the logger used when no problems listener is configured.
func WithLogger(l ports.Logger) Option { return func(o *options) { o.logger = l } }

// WithProducer overrides the producer version recorded in and checked against the header.
func WithProducer(version string) Option { return func(o *options) { o.producer = version } }

func newOptions(opts []Option) *options {
	o := &options{producer: build.Version}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = NewBaseRegistry()
	}
	if o.typeLoader == nil {
		o.typeLoader = KnownTypes()
	}
	return o
}

// Writer encodes root values into one cache stream. All roots share the pass-wide
// identity table, so a value reachable from several roots is written once.
type Writer struct {
	buf   *bufio.Writer
	ctx   *WriteContext
	roots int
	err   error
}

// NewWriter writes the entry header to w and returns a Writer for the entry's roots.
func NewWriter(w io.Writer, opts ...Option) (*Writer, error) {
	o := newOptions(opts)
	buf := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(buf)
	wr := &Writer{buf: buf}
	wr.ctx = newWriteContext(enc, wr, o)
	if err := writeHeader(enc, o.producer); err != nil {
		return nil, zerr.Wrap(err, "cannot write entry header")
	}
	return wr, nil
}

// Write encodes one root value. After a failure the pass is aborted and every later call
// returns the same error.
func (w *Writer) Write(v any) error {
	if w.err != nil {
		return w.err
	}
	c := w.ctx
	c.trace = domain.RootTrace(strconv.Itoa(w.roots))
	c.failedAt = nil
	w.roots++
	if err := c.Write(v); err != nil {
		w.err = withTrace(err, c.failedAt, c.trace)
		return w.err
	}
	return nil
}

// Roots returns the number of roots written so far.
func (w *Writer) Roots() int {
	return w.roots
}

// Close flushes the stream. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.err == nil {
		w.err = zerr.Wrap(domain.ErrWriterClosed, "write after close")
	}
	if err := w.buf.Flush(); err != nil {
		return zerr.Wrap(err, "cannot flush cache stream")
	}
	return nil
}

// Reader decodes the root values of one cache stream.
type Reader struct {
	dec *msgpack.Decoder
	ctx *ReadContext
	// Producer is the version that wrote the entry.
	Producer string
	roots    int
	closed   bool
	err      error
}

// NewReader reads and validates the entry header.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	o := newOptions(opts)
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	producer, err := readHeader(dec, o.producer)
	if err != nil {
		return nil, err
	}
	rd := &Reader{dec: dec, Producer: producer}
	rd.ctx = newReadContext(dec, rd, o)
	return rd, nil
}

// Read decodes the next root value. It returns io.EOF when the stream has no more roots.
// After a decoding error every later call returns that error.
func (r *Reader) Read() (any, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.closed {
		return nil, io.EOF
	}
	if _, err := r.dec.PeekCode(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		r.err = zerr.Wrap(err, "cannot read cache stream")
		return nil, r.err
	}
	c := r.ctx
	c.trace = domain.RootTrace(strconv.Itoa(r.roots))
	c.failedAt = nil
	r.roots++
	v, err := c.Read()
	if err != nil {
		r.err = withTrace(err, c.failedAt, c.trace)
		return nil, r.err
	}
	return v, nil
}

// ReadAll decodes every remaining root value.
func (r *Reader) ReadAll() ([]any, error) {
	var roots []any
	for {
		v, err := r.Read()
		if errors.Is(err, io.EOF) {
			return roots, nil
		}
		if err != nil {
			return roots, err
		}
		roots = append(roots, v)
	}
}

// Close ends the pass. Later reads report io.EOF. It does not close the underlying reader.
func (r *Reader) Close() error {
	r.closed = true
	return nil
}

func writeHeader(enc *msgpack.Encoder, producer string) error {
	if err := enc.EncodeString(entryMagic); err != nil {
		return err
	}
	if err := enc.EncodeUint(FormatVersion); err != nil {
		return err
	}
	return enc.EncodeString(producer)
}

func readHeader(dec *msgpack.Decoder, producer string) (string, error) {
	magic, err := dec.DecodeString()
	if err != nil || magic != entryMagic {
		return "", zerr.Wrap(domain.ErrIncompatibleEntry, "not a configuration cache entry")
	}
	version, err := dec.DecodeUint64()
	if err != nil {
		return "", zerr.Wrap(domain.ErrIncompatibleEntry, "cannot read format version")
	}
	if version != FormatVersion {
		return "", zerr.With(zerr.Wrap(domain.ErrIncompatibleEntry, "unsupported format version"), "version", version)
	}
	written, err := dec.DecodeString()
	if err != nil {
		return "", zerr.Wrap(domain.ErrIncompatibleEntry, "cannot read producer version")
	}
	if written != producer {
		err := zerr.Wrap(domain.ErrIncompatibleEntry, "entry was written by another version")
		return "", zerr.With(zerr.With(err, "producer", written), "expected", producer)
	}
	return written, nil
}

func withTrace(err error, failedAt, root *domain.PropertyTrace) error {
	trace := failedAt
	if trace == nil {
		trace = root
	}
	return zerr.With(zerr.Wrap(err, ""), "trace", trace.String())
}
