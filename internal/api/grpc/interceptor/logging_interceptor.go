package interceptor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"storefront-library/internal/logger"
)

type LoggingInterceptor struct {
	// quiet lists methods that are only logged at debug level, such as
	// health probes that fire every few seconds.
	quiet map[string]bool
}

func NewLoggingInterceptor(quietMethods ...string) *LoggingInterceptor {
	quiet := make(map[string]bool, len(quietMethods))
	for _, m := range quietMethods {
		quiet[m] = true
	}
	return &LoggingInterceptor{quiet: quiet}
}

// Unary returns a server interceptor that tags the context with a request
// id, recovers panics and logs every call.
func (i *LoggingInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()
		ctx = logger.WithRequestID(ctx, requestID(ctx))

		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "gRPC handler panicked", "method", info.FullMethod, "panic", r)
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}

			code := status.Code(err)
			args := []any{"method", info.FullMethod, "code", code.String(), "duration_ms", time.Since(start).Milliseconds()}
			switch {
			case code != codes.OK:
				logger.WarnContext(ctx, "grpc.request", append(args, "error", err)...)
			case i.quiet[info.FullMethod]:
				logger.DebugContext(ctx, "grpc.request", args...)
			default:
				logger.InfoContext(ctx, "grpc.request", args...)
			}
		}()

		return handler(ctx, req)
	}
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get("x-request-id"); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}
