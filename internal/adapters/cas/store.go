// Package cas implements the on-disk store for encoded cache entries.
package cas

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/zerr"
	"go.uber.org/multierr"
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Store implements ports.EntryStore using one file per key.
// Each entry has a CBOR metadata sidecar next to it.
type Store struct {
	dir         string
	compression domain.Compression
	now         func() time.Time
}

// NewStore creates a new EntryStore backed by the directory at the given path.
func NewStore(dir string, compression domain.Compression) *Store {
	return &Store{
		dir:         filepath.Clean(dir),
		compression: compression,
		now:         time.Now,
	}
}

// Dir returns the directory holding the entries.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) entryPath(key string) string {
	return filepath.Join(s.dir, fileName(key)+domain.EntryFileExt)
}

func (s *Store) metaPath(key string) string {
	return filepath.Join(s.dir, fileName(key)+domain.MetaFileExt)
}

func fileName(key string) string {
	return strconv.FormatUint(xxhash.Sum64String(key), 16)
}

// Create opens a writer for the entry under key.
// The entry becomes visible, replacing any previous one, only when the writer is closed.
func (s *Store) Create(key string, info domain.EntryInfo) (ports.EntryWriter, error) {
	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreCreateFailed, err.Error()), "dir", s.dir)
	}

	f, err := os.CreateTemp(s.dir, fileName(key)+"-*"+domain.TempFileExt)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreCreateFailed, err.Error()), "key", key)
	}

	info.Key = key
	info.Codec = string(s.compression)
	w := &entryWriter{store: s, file: f, info: info, sink: f}

	if s.compression == domain.CompressionZstd {
		enc, err := zstd.NewWriter(f, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, multierr.Combine(
				zerr.With(zerr.Wrap(domain.ErrStoreCreateFailed, err.Error()), "key", key),
				f.Close(),
				os.Remove(f.Name()),
			)
		}
		w.enc = enc
		w.sink = enc
	}
	return w, nil
}

// Open returns a reader for the entry under key.
// Compressed entries are recognized by their frame magic, so entries written under
// another compression setting stay readable.
func (s *Store) Open(key string) (io.ReadCloser, error) {
	path := s.entryPath(key)
	//nolint:gosec // Path is built from the store directory and a hashed key
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrEntryNotFound, "cannot open cache entry"), "key", key)
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "key", key)
	}

	br := bufio.NewReader(f)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, multierr.Append(zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "key", key), f.Close())
	}
	if !bytes.Equal(head, zstdMagic) {
		return &entryReader{Reader: br, file: f}, nil
	}

	dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, multierr.Append(zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "key", key), f.Close())
	}
	return &entryReader{Reader: dec, file: f, dec: dec}, nil
}

// Info returns the metadata of the entry under key.
func (s *Store) Info(key string) (domain.EntryInfo, error) {
	path := s.metaPath(key)
	//nolint:gosec // Path is built from the store directory and a hashed key
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.EntryInfo{}, zerr.With(zerr.Wrap(domain.ErrEntryNotFound, "cannot read cache entry info"), "key", key)
		}
		return domain.EntryInfo{}, zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "key", key)
	}
	return unmarshalInfo(data, path)
}

// List returns the metadata of every stored entry, sorted by key.
func (s *Store) List() ([]domain.EntryInfo, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "dir", s.dir)
	}

	infos := make([]domain.EntryInfo, 0, len(dirEntries))
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), domain.MetaFileExt) {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		//nolint:gosec // Path is listed from the store directory
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", path)
		}
		info, err := unmarshalInfo(data, path)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	slices.SortFunc(infos, func(a, b domain.EntryInfo) int {
		return strings.Compare(a.Key, b.Key)
	})
	return infos, nil
}

// Remove deletes the entry under key together with its metadata.
func (s *Store) Remove(key string) error {
	errEntry := os.Remove(s.entryPath(key))
	errMeta := os.Remove(s.metaPath(key))
	if errors.Is(errEntry, fs.ErrNotExist) && errors.Is(errMeta, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(domain.ErrEntryNotFound, "cannot remove cache entry"), "key", key)
	}

	var errs error
	for _, err := range []error{errEntry, errMeta} {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreRemoveFailed, errs.Error()), "key", key)
	}
	return nil
}

type entryWriter struct {
	store *Store
	file  *os.File
	enc   *zstd.Encoder
	sink  io.Writer
	info  domain.EntryInfo
	size  int64
	done  bool
}

func (w *entryWriter) Write(p []byte) (int, error) {
	if w.done {
		return 0, zerr.With(zerr.Wrap(domain.ErrWriterClosed, "cannot write cache entry"), "key", w.info.Key)
	}
	n, err := w.sink.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "key", w.info.Key)
	}
	return n, nil
}

// Close flushes the entry and moves it into place. The metadata sidecar is
// written after the entry, so a listed entry is always readable.
func (w *entryWriter) Close() error {
	if w.done {
		return nil
	}
	w.done = true

	var errs error
	if w.enc != nil {
		errs = multierr.Append(errs, w.enc.Close())
	}
	errs = multierr.Append(errs, w.file.Sync())
	errs = multierr.Append(errs, w.file.Close())
	if errs != nil {
		return multierr.Append(
			zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, errs.Error()), "key", w.info.Key),
			removeTemp(w.file.Name()),
		)
	}

	if err := os.Rename(w.file.Name(), w.store.entryPath(w.info.Key)); err != nil {
		return multierr.Append(
			zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "key", w.info.Key),
			removeTemp(w.file.Name()),
		)
	}

	w.info.Size = w.size
	if w.info.Timestamp.IsZero() {
		w.info.Timestamp = w.store.now().UTC()
	}
	return w.store.writeInfo(w.info)
}

// Discard drops the entry. A previously stored entry under the same key is kept.
func (w *entryWriter) Discard() error {
	if w.done {
		return nil
	}
	w.done = true

	var errs error
	if w.enc != nil {
		errs = multierr.Append(errs, w.enc.Close())
	}
	errs = multierr.Append(errs, w.file.Close())
	errs = multierr.Append(errs, removeTemp(w.file.Name()))
	if errs != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreRemoveFailed, errs.Error()), "key", w.info.Key)
	}
	return nil
}

func (s *Store) writeInfo(info domain.EntryInfo) error {
	data, err := marshalInfo(info)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(s.dir, fileName(info.Key)+"-*"+domain.TempFileExt)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "key", info.Key)
	}
	_, errWrite := f.Write(data)
	if err := multierr.Append(errWrite, f.Close()); err != nil {
		return multierr.Append(
			zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "key", info.Key),
			removeTemp(f.Name()),
		)
	}
	if err := os.Rename(f.Name(), s.metaPath(info.Key)); err != nil {
		return multierr.Append(
			zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "key", info.Key),
			removeTemp(f.Name()),
		)
	}
	return nil
}

func removeTemp(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

type entryReader struct {
	io.Reader
	file *os.File
	dec  *zstd.Decoder
}

func (r *entryReader) Close() error {
	if r.dec != nil {
		r.dec.Close()
	}
	return r.file.Close()
}
