package codec

import (
	"errors"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// BrokenValue stands in for a value whose encoding failed in a recoverable way.
// It carries the failure so the code that eventually uses the value sees it.
type BrokenValue struct {
	failure error
}

// NewBrokenValue wraps failure.
func NewBrokenValue(failure error) *BrokenValue {
	return &BrokenValue{failure: failure}
}

// Rethrow returns the captured failure.
func (b *BrokenValue) Rethrow() error {
	return b.failure
}

type messager interface {
	Message() string
}

// failureMessages flattens err into the messages of its chain. zerr errors contribute
// their own message and continue with their cause; any other error ends the chain.
func failureMessages(err error) []string {
	var messages []string
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			messages = append(messages, current.Error())
			break
		}
		if msg := m.Message(); msg != "" {
			messages = append(messages, msg)
		}
		current = errors.Unwrap(current)
	}
	return messages
}

var sentinelsByMessage = func() map[string]error {
	m := make(map[string]error)
	for _, err := range domain.Sentinels() {
		m[err.Error()] = err
	}
	return m
}()

// rebuildFailure turns captured messages back into an error chain with the same text.
// A chain ending in a domain sentinel's message is rooted at that sentinel.
func rebuildFailure(messages []string) error {
	if len(messages) == 0 {
		return zerr.New("unknown failure")
	}
	last := messages[len(messages)-1]
	err, ok := sentinelsByMessage[last]
	if !ok {
		err = zerr.New(last)
	}
	for i := len(messages) - 2; i >= 0; i-- {
		err = zerr.Wrap(err, messages[i])
	}
	return err
}

type brokenCodec struct{}

func (brokenCodec) Encode(ctx *WriteContext, v any) error {
	return ctx.WriteStrings(failureMessages(v.(*BrokenValue).failure))
}

func (brokenCodec) Decode(ctx *ReadContext) (any, error) {
	messages, err := ctx.ReadStrings()
	if err != nil {
		return nil, err
	}
	return NewBrokenValue(rebuildFailure(messages)), nil
}
