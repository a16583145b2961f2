package domain

import "path/filepath"

const (
	// CacheDirName is the name of the directory holding cache state.
	CacheDirName = ".cfgcache"

	// EntriesDirName is the directory name for encoded cache entries.
	EntriesDirName = "entries"

	// ConfigFileName is the optional configuration file read from the working directory.
	ConfigFileName = "cfgcache.yaml"

	// EntryFileExt is the extension of an encoded cache entry.
	EntryFileExt = ".bin"

	// MetaFileExt is the extension of an entry metadata sidecar.
	MetaFileExt = ".meta"

	// TempFileExt marks an entry that is still being written.
	TempFileExt = ".tmp"

	// DirPerm is the default permission for directories.
	DirPerm = 0o750

	// FilePerm is the default permission for files.
	FilePerm = 0o600
)

// DefaultEntriesPath returns the default entries directory relative to the working directory.
func DefaultEntriesPath() string {
	return filepath.Join(CacheDirName, EntriesDirName)
}
