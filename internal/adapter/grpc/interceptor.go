package grpc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Role is the access level granted by a token
type Role string

const (
	RoleAnalyst Role = "ANALYST"
	RoleAdmin   Role = "ADMIN"
)

// adminMethods lists the RPCs that require RoleAdmin
var adminMethods = map[string]bool{
	MethodInvalidateSnapshot: true,
}

type roleKey struct{}

// RoleFromContext returns the role the auth interceptor attached to the context
func RoleFromContext(ctx context.Context) (Role, bool) {
	role, ok := ctx.Value(roleKey{}).(Role)
	return role, ok
}

// AuthInterceptor returns a gRPC unary server interceptor that validates
// the authorization token from request metadata and enforces the method's role.
// If the token is missing or unknown, it returns status.Unauthenticated.
// If the token's role is too low, it returns status.PermissionDenied.
// If valid, it calls the handler with the role attached to the context.
func AuthInterceptor(tokens map[string]Role) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		authHeaders := md.Get("authorization")
		if len(authHeaders) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
		role, ok := tokens[token]
		if !ok || token == "" {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		if adminMethods[info.FullMethod] && role != RoleAdmin {
			return nil, status.Errorf(codes.PermissionDenied, "%s requires the %s role", info.FullMethod, RoleAdmin)
		}

		return handler(context.WithValue(ctx, roleKey{}, role), req)
	}
}

// LoggingInterceptor returns a gRPC unary server interceptor that logs
// every call with its method, status code and duration
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		level := slog.LevelInfo
		switch code {
		case codes.OK:
		case codes.Internal, codes.Unknown:
			level = slog.LevelError
		default:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("method", info.FullMethod),
			slog.String("code", code.String()),
			slog.Duration("duration", time.Since(start)),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", status.Convert(err).Message()))
		}
		logger.LogAttrs(ctx, level, "grpc call", attrs...)

		return resp, err
	}
}
