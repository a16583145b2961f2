package ports

import "go.trai.ch/cfgcache/internal/core/domain"

// ProblemsListener receives recoverable problems found while encoding or decoding.
//
//go:generate go run go.uber.org/mock/mockgen -source=problems.go -destination=mocks/mock_problems.go -package=mocks
type ProblemsListener interface {
	// OnProblem records a problem at the given property trace.
	OnProblem(trace *domain.PropertyTrace, message string)

	// OnError records a failure that was replaced by a placeholder at the given property trace.
	OnError(trace *domain.PropertyTrace, err error, message string)
}
