package domain

// ScopeRole tells whether a class was loaded from a scope's local or export class path.
type ScopeRole uint8

const (
	// ScopeLocal marks a class visible only inside its scope.
	ScopeLocal ScopeRole = iota
	// ScopeExport marks a class the scope exports to its children.
	ScopeExport
)

// String returns the role name.
func (r ScopeRole) String() string {
	if r == ScopeExport {
		return "export"
	}
	return "local"
}

// ScopeSpec describes one node of the class loader scope tree.
// Specs form a rooted, acyclic hierarchy; the top-level spec has no parent.
type ScopeSpec struct {
	Parent             *ScopeSpec
	Name               string
	LocalClassPath     []string
	ImplementationHash string
	ExportClassPath    []string
}

// Path returns the scope names from the root down to s, joined with ":".
func (s *ScopeSpec) Path() string {
	if s == nil {
		return ""
	}
	if s.Parent == nil {
		return s.Name
	}
	return s.Parent.Path() + ":" + s.Name
}

// HasHash reports whether the spec carries an implementation hash.
func (s *ScopeSpec) HasHash() bool {
	return s.ImplementationHash != ""
}
