package domain

import "strings"

// TraceKind classifies one step of a PropertyTrace.
type TraceKind uint8

const (
	// TraceRoot is the top-level value of a pass.
	TraceRoot TraceKind = iota
	// TraceField is a struct field.
	TraceField
	// TraceElement is a slice, array or map element.
	TraceElement
	// TraceTask is a task whose state is being encoded.
	TraceTask
	// TraceLevel is one level of a legacy serializable hierarchy.
	TraceLevel
)

// PropertyTrace is a human-readable path to the value currently being encoded or decoded.
// Traces are immutable; Child returns a new trace that points at its parent.
type PropertyTrace struct {
	Kind   TraceKind
	Name   string
	Owner  string
	Parent *PropertyTrace
}

// RootTrace returns a trace for a top-level value.
func RootTrace(name string) *PropertyTrace {
	return &PropertyTrace{Kind: TraceRoot, Name: name}
}

// Child returns a trace for a value nested under t.
func (t *PropertyTrace) Child(kind TraceKind, name, owner string) *PropertyTrace {
	return &PropertyTrace{Kind: kind, Name: name, Owner: owner, Parent: t}
}

// String renders the trace innermost first, for example
// "field `Inputs` of `domain.Task` of task `:app:build` of root `graph`".
func (t *PropertyTrace) String() string {
	if t == nil {
		return "<unknown>"
	}
	parts := make([]string, 0, 4)
	for cur := t; cur != nil; cur = cur.Parent {
		parts = append(parts, cur.step())
	}
	return strings.Join(parts, " of ")
}

func (t *PropertyTrace) step() string {
	switch t.Kind {
	case TraceField:
		if t.Owner != "" {
			return "field `" + t.Name + "` of `" + t.Owner + "`"
		}
		return "field `" + t.Name + "`"
	case TraceElement:
		return "element " + t.Name
	case TraceTask:
		return "task `" + t.Name + "`"
	case TraceLevel:
		return "serializable level `" + t.Name + "`"
	default:
		return "root `" + t.Name + "`"
	}
}

// Problem is a recoverable failure recorded while encoding or decoding.
type Problem struct {
	Trace   string
	Message string
	Err     error
}

// String renders the problem on a single line.
func (p Problem) String() string {
	msg := p.Trace + ": " + p.Message
	if p.Err != nil {
		msg += ": " + p.Err.Error()
	}
	return msg
}
