package codec

import (
	"go.trai.ch/cfgcache/internal/core/domain"
	"go.trai.ch/cfgcache/internal/core/ports"
	"go.trai.ch/zerr"
)

func reportProblem(listener ports.ProblemsListener, logger ports.Logger, trace *domain.PropertyTrace, message string) {
	if listener != nil {
		listener.OnProblem(trace, message)
		return
	}
	if logger != nil {
		logger.Warn(trace.String() + ": " + message)
	}
}

func reportError(listener ports.ProblemsListener, logger ports.Logger, trace *domain.PropertyTrace, err error, message string) {
	if listener != nil {
		listener.OnError(trace, err, message)
		return
	}
	if logger != nil {
		logger.Error(zerr.With(zerr.Wrap(err, message), "trace", trace.String()))
	}
}
