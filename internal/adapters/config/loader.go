// Package config provides the configuration loader for cfgcache.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger   ports.Logger
	Filename string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Filename: domain.ConfigFileName}
}

// Load finds the nearest configuration file at or above cwd and applies it over the defaults.
// A relative cache directory is resolved against the directory holding the file,
// or against cwd when no file exists.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	path, found := l.findConfiguration(cwd)
	if !found {
		cfg.CacheDir = filepath.Join(cwd, cfg.CacheDir)
		return cfg, nil
	}

	var file File
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		return nil, err
	}
	if err := apply(cfg, &file); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	if !filepath.IsAbs(cfg.CacheDir) {
		cfg.CacheDir = filepath.Join(filepath.Dir(path), cfg.CacheDir)
	}

	if l.Logger != nil {
		l.Logger.Info("using configuration " + path)
	}
	return cfg, nil
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	name := l.Filename
	if name == "" {
		name = domain.ConfigFileName
	}

	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func readAndUnmarshalYAML(path string, v any) error {
	//nolint:gosec // Path is discovered from the working directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", path)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", path)
	}
	return nil
}

func apply(cfg *domain.Config, file *File) error {
	if file.CacheDir != "" {
		cfg.CacheDir = file.CacheDir
	}

	switch c := domain.Compression(file.Compression); c {
	case "":
	case domain.CompressionZstd, domain.CompressionNone:
		cfg.Compression = c
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown compression"), "compression", file.Compression)
	}

	switch f := domain.LogFormat(file.LogFormat); f {
	case "":
	case domain.LogFormatPretty, domain.LogFormatJSON:
		cfg.LogFormat = f
	default:
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unknown log format"), "logFormat", file.LogFormat)
	}

	if file.FailOnProblems != nil {
		cfg.FailOnProblems = *file.FailOnProblems
	}
	return nil
}
