package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// NewUnaryAuthInterceptor returns a gRPC unary interceptor that extracts and validates
// a Bearer JWT from incoming metadata and injects the Identity into the context.
// Methods listed in allowUnauthenticated bypass authentication (e.g., health checks).
func NewUnaryAuthInterceptor(tm *TokenManager, log *zap.Logger, allowUnauthenticated ...string) grpc.UnaryServerInterceptor {
	if log == nil {
		log = zap.NewNop()
	}
	allow := make(map[string]struct{}, len(allowUnauthenticated))
	for _, m := range allowUnauthenticated {
		allow[strings.TrimSpace(m)] = struct{}{}
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := allow[info.FullMethod]; ok {
			return handler(ctx, req)
		}
		id, err := ParseFromMD(ctx, tm)
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) {
				log.Warn("token rejected",
					zap.String("reason", string(ReasonOf(err))),
					zap.String("method", info.FullMethod))
			} else {
				log.Error("token check failed", zap.String("method", info.FullMethod), zap.Error(err))
			}
			return nil, StatusFromError(err)
		}
		resp, err := handler(WithIdentity(ctx, id), req)
		if _, ok := status.FromError(err); !ok {
			// plain errors from handlers, e.g. ErrForbidden from RequireAdmin
			return resp, StatusFromError(err)
		}
		return resp, err
	}
}

// ParseFromMD extracts and validates a Bearer JWT from gRPC metadata.
func ParseFromMD(ctx context.Context, tm *TokenManager) (*Identity, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, tokenErr(ReasonMissing, errors.New("missing metadata"))
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return nil, tokenErr(ReasonMissing, errors.New("missing authorization"))
	}
	tok, err := BearerToken(vals[0])
	if err != nil {
		return nil, err
	}
	return tm.Verify(ctx, tok)
}

// StatusFromError maps auth errors onto gRPC status codes.
func StatusFromError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, FailedMessage)
	case errors.Is(err, ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
