package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// eventScoped is implemented by request messages that carry an event ledger.
type eventScoped interface {
	GetEventID() string
}

// LoggingInterceptor returns a Connect interceptor that writes one record per
// RPC with the procedure, event, request ID, outcome code and duration.
// Successful calls log at info, Connect errors at warn and anything else at
// error.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("request_id", GetRequestID(ctx)),
			}
			if msg, ok := req.Any().(eventScoped); ok {
				attrs = append(attrs, slog.String("event_id", msg.GetEventID()))
			}
			attrs = append(attrs, slog.Int64("duration_ms", time.Since(start).Milliseconds()))

			level, msg := slog.LevelInfo, "RPC ok"
			var connectErr *connect.Error
			switch {
			case err == nil:
				attrs = append(attrs, slog.String("code", "ok"))
			case errors.As(err, &connectErr):
				level, msg = slog.LevelWarn, "RPC error"
				attrs = append(attrs,
					slog.String("code", connectErr.Code().String()),
					slog.String("error", connectErr.Message()),
				)
			default:
				level, msg = slog.LevelError, "RPC error"
				attrs = append(attrs,
					slog.String("code", connect.CodeUnknown.String()),
					slog.Any("error", err),
				)
			}

			logger.LogAttrs(ctx, level, msg, attrs...)
			return resp, err
		}
	}
}
