package ports

import (
	"io"

	"go.trai.ch/cfgcache/internal/core/domain"
)

// EntryWriter receives the encoded bytes of one cache entry.
// Close publishes the entry; Discard drops it.
type EntryWriter interface {
	io.Writer
	Close() error
	Discard() error
}

// EntryStore persists encoded cache entries.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type EntryStore interface {
	// Create opens a writer for the entry under key. The previous entry stays visible until Close.
	Create(key string, info domain.EntryInfo) (EntryWriter, error)

	// Open returns a reader for the entry under key or domain.ErrEntryNotFound.
	Open(key string) (io.ReadCloser, error)

	// List returns the metadata of every stored entry.
	List() ([]domain.EntryInfo, error)

	// Remove deletes the entry under key.
	Remove(key string) error
}
