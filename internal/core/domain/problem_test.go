package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/cfgcache/internal/core/domain"
)

func TestPropertyTrace_String(t *testing.T) {
	trace := domain.RootTrace("graph").
		Child(domain.TraceTask, ":app:build", "").
		Child(domain.TraceField, "Inputs", "domain.Task")

	assert.Equal(t, "field `Inputs` of `domain.Task` of task `:app:build` of root `graph`", trace.String())

	var nilTrace *domain.PropertyTrace
	assert.Equal(t, "<unknown>", nilTrace.String())
}

func TestPropertyTrace_Steps(t *testing.T) {
	root := domain.RootTrace("r")
	assert.Equal(t, "element 3 of root `r`", root.Child(domain.TraceElement, "3", "").String())
	assert.Equal(t, "serializable level `a.B` of root `r`", root.Child(domain.TraceLevel, "a.B", "").String())
	assert.Equal(t, "field `x` of root `r`", root.Child(domain.TraceField, "x", "").String())
}

func TestProblem_String(t *testing.T) {
	p := domain.Problem{Trace: "root `r`", Message: "cannot visit", Err: errors.New("boom")}
	assert.Equal(t, "root `r`: cannot visit: boom", p.String())

	p.Err = nil
	assert.Equal(t, "root `r`: cannot visit", p.String())
}
