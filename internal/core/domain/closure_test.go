package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cfgcache/internal/core/domain"
)

func TestClosure_Call(t *testing.T) {
	domain.DefineClosure("domain_test.greet", func(c *domain.Closure, args ...any) (any, error) {
		return c.Captured[0].(string) + " " + args[0].(string), nil
	})

	c := domain.NewClosure("domain_test.greet", "owner", "hello")
	got, err := c.Call("world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
}

func TestClosure_CallUndefined(t *testing.T) {
	c := domain.NewClosure("domain_test.undefined", nil)
	_, err := c.Call()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrClosureBodyNotFound))
}

func TestClosure_DehydrateRehydrate(t *testing.T) {
	owner := &domain.Project{Path: ":app"}
	c := domain.NewClosure("body", owner, 1, "two")
	c.SetDelegate("delegate")

	assert.Same(t, owner, c.Owner())
	assert.Equal(t, "delegate", c.Delegate())
	assert.Same(t, owner, c.ThisObject())

	dry := c.Dehydrate()
	assert.Nil(t, dry.Owner())
	assert.Nil(t, dry.Delegate())
	assert.Nil(t, dry.ThisObject())
	assert.Equal(t, c.Captured, dry.Captured)

	wet := dry.Rehydrate(domain.NeutralOwner, domain.NeutralOwner, domain.NeutralOwner)
	assert.Equal(t, domain.NeutralOwner, wet.Owner())
	assert.Equal(t, domain.NeutralOwner, wet.Delegate())
	assert.Equal(t, domain.NeutralOwner, wet.ThisObject())
	assert.Nil(t, dry.Owner(), "rehydrate must not mutate the receiver")
}
