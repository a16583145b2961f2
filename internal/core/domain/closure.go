package domain

import (
	"sync"

	"go.trai.ch/zerr"
)

// ClosureBody is the code behind a closure. It receives the closure to reach the
// captured values and the bound owner, delegate and this-object.
type ClosureBody func(c *Closure, args ...any) (any, error)

var closureBodies sync.Map // map[string]ClosureBody

// DefineClosure registers a closure body under name.
// Bodies are process-wide and are looked up again after a closure is decoded.
func DefineClosure(name string, body ClosureBody) {
	closureBodies.Store(name, body)
}

type neutralOwner struct{}

func (neutralOwner) String() string { return "neutral owner" }

// NeutralOwner is bound to decoded closures in place of the owner they had when encoded.
var NeutralOwner any = neutralOwner{}

// Closure is a deferred action with captured values.
type Closure struct {
	Body     string
	Captured []any

	owner      any
	delegate   any
	thisObject any
}

// NewClosure creates a closure bound to owner, which also becomes its delegate and this-object.
func NewClosure(body string, owner any, captured ...any) *Closure {
	return &Closure{
		Body:       body,
		Captured:   captured,
		owner:      owner,
		delegate:   owner,
		thisObject: owner,
	}
}

// Owner returns the object the closure was declared in.
func (c *Closure) Owner() any { return c.owner }

// Delegate returns the object unresolved references are dispatched to.
func (c *Closure) Delegate() any { return c.delegate }

// ThisObject returns the closure's this-object.
func (c *Closure) ThisObject() any { return c.thisObject }

// SetDelegate changes the delegate.
func (c *Closure) SetDelegate(delegate any) { c.delegate = delegate }

// Dehydrate returns a copy that is detached from its owner, delegate and this-object.
func (c *Closure) Dehydrate() *Closure {
	return &Closure{Body: c.Body, Captured: c.Captured}
}

// Rehydrate returns a copy bound to the given owner, delegate and this-object.
func (c *Closure) Rehydrate(owner, delegate, thisObject any) *Closure {
	cp := &Closure{Body: c.Body, Captured: c.Captured}
	cp.Attach(owner, delegate, thisObject)
	return cp
}

// Attach binds c in place.
func (c *Closure) Attach(owner, delegate, thisObject any) {
	c.owner = owner
	c.delegate = delegate
	c.thisObject = thisObject
}

// Call runs the closure body.
func (c *Closure) Call(args ...any) (any, error) {
	body, ok := closureBodies.Load(c.Body)
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrClosureBodyNotFound, "cannot call closure"), "body", c.Body)
	}
	return body.(ClosureBody)(c, args...)
}
