package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/zerr"
)

type providerBacked struct {
	provider domain.FileProvider
}

// FromProvider returns a collection whose paths are computed by p each time it is resolved.
func FromProvider(p domain.FileProvider) domain.FileCollection {
	return &providerBacked{provider: p}
}

func (c *providerBacked) Files() ([]string, error) {
	value, err := c.provider.Get()
	if err != nil {
		return nil, err
	}
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case domain.FileCollection:
		return v.Files()
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrProviderValue, "cannot resolve file provider"), "type", fmt.Sprintf("%T", value))
	}
}

func (c *providerBacked) VisitStructure(v domain.FileStructureVisitor) error {
	v.VisitProvider(c.provider)
	return nil
}

// EnvProvider reads a path list from an environment variable when resolved.
type EnvProvider struct {
	Variable string
}

// Get returns the variable's entries split on the OS path list separator.
func (p *EnvProvider) Get() (any, error) {
	raw := os.Getenv(p.Variable)
	if raw == "" {
		return []string(nil), nil
	}
	return strings.Split(raw, string(filepath.ListSeparator)), nil
}

// FixedProvider always yields Value.
type FixedProvider struct {
	Value any
}

// Get returns the fixed value.
func (p *FixedProvider) Get() (any, error) {
	return p.Value, nil
}
