// Package problems collects the recoverable problems reported during a cache pass.
package problems

import (
	"slices"
	"sync"

	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// Collector implements ports.ProblemsListener. Every problem is logged at warn level
// and kept for the caller.
type Collector struct {
	logger ports.Logger

	mu       sync.Mutex
	problems []domain.Problem
}

// NewCollector creates a Collector that logs to logger. A nil logger only collects.
func NewCollector(logger ports.Logger) *Collector {
	return &Collector{logger: logger}
}

// OnProblem records a problem at trace.
func (c *Collector) OnProblem(trace *domain.PropertyTrace, message string) {
	c.record(domain.Problem{Trace: trace.String(), Message: message})
}

// OnError records a failure that was replaced by a placeholder at trace.
func (c *Collector) OnError(trace *domain.PropertyTrace, err error, message string) {
	c.record(domain.Problem{Trace: trace.String(), Message: message, Err: err})
}

func (c *Collector) record(p domain.Problem) {
	c.mu.Lock()
	c.problems = append(c.problems, p)
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Warn(p.String())
	}
}

// Problems returns the problems recorded so far, in report order.
func (c *Collector) Problems() []domain.Problem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.problems)
}

// Len returns the number of recorded problems.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.problems)
}

// Err returns domain.ErrProblemsReported when any problem was recorded.
func (c *Collector) Err() error {
	n := c.Len()
	if n == 0 {
		return nil
	}
	return zerr.With(zerr.Wrap(domain.ErrProblemsReported, "cannot accept configuration cache"), "problems", n)
}
