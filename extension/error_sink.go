package extension

import (
	"log/slog"

	"github.com/reglet-dev/envoy-sdk-go/domain/errors"
	"github.com/reglet-dev/envoy-sdk-go/domain/ports"
)

// LogErrorSink reports extension errors through slog.
type LogErrorSink struct {
	Logger *slog.Logger
}

var _ ports.ErrorSink = LogErrorSink{}

// DefaultErrorSink returns a sink logging through the default logger.
func DefaultErrorSink() LogErrorSink {
	return LogErrorSink{}
}

// Observe logs err at error level.
func (s LogErrorSink) Observe(context string, err error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{slog.Any("error", err)}
	if detail := errors.ToErrorDetail(err); detail != nil {
		attrs = append(attrs, slog.String("error_type", detail.Type))
		if detail.Code != "" {
			attrs = append(attrs, slog.String("error_code", detail.Code))
		}
	}
	logger.Error(context, attrs...)
}
