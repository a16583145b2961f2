package domain

// Compression names an entry compression scheme.
type Compression string

const (
	// CompressionZstd compresses entries with zstd.
	CompressionZstd Compression = "zstd"
	// CompressionNone stores entries uncompressed.
	CompressionNone Compression = "none"
)

// LogFormat selects the logger output.
type LogFormat string

const (
	// LogFormatPretty is human-readable output.
	LogFormatPretty LogFormat = "pretty"
	// LogFormatJSON is structured JSON output.
	LogFormatJSON LogFormat = "json"
)

// Config is the resolved cache configuration.
type Config struct {
	CacheDir       string
	Compression    Compression
	LogFormat      LogFormat
	FailOnProblems bool
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		CacheDir:    DefaultEntriesPath(),
		Compression: CompressionZstd,
		LogFormat:   LogFormatPretty,
	}
}
