package grpc

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/skillswap/internal/common"
	"github.com/dmitrijs2005/skillswap/internal/rpc"
	"github.com/dmitrijs2005/skillswap/internal/server/auth"
	"github.com/dmitrijs2005/skillswap/internal/server/metrics"
	"github.com/dmitrijs2005/skillswap/internal/server/models"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const callerKey ctxKey = "caller"

// Caller is the verified identity of the request.
type Caller struct {
	UserID string
	Role   string
}

func withCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

// CallerFromContext returns the identity stored by the access interceptor.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	return c, ok
}

func tokenFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AccessTokenHeaderName)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// accessTokenInterceptor verifies the token on every SkillSwap method. User
// tokens must name a known, unblocked user; admin methods need an admin token.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if !strings.HasPrefix(info.FullMethod, "/"+rpc.ServiceName+"/") {
		return handler(ctx, req)
	}

	accessToken := tokenFromContext(ctx)
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error()+": missing token")
	}

	claims, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	if rpc.AdminMethods[info.FullMethod] && !claims.IsAdmin() {
		return nil, status.Error(codes.PermissionDenied, common.ErrForbidden.Error()+": admin role required")
	}

	userID := models.CanonicalID(claims.UserID)

	if !claims.IsAdmin() {
		if _, err := uuid.Parse(userID); err != nil {
			return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
		}

		u, err := s.directory.GetUser(ctx, userID)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error()+": unknown user")
		case err != nil:
			s.logger.Error(ctx, "caller lookup failed", "user_id", userID, "error", err)
			return nil, status.Error(codes.Internal, common.ErrorInternal.Error())
		case u.IsSystem:
			return nil, status.Error(codes.PermissionDenied, common.ErrForbidden.Error()+": system account")
		case u.Blocked:
			return nil, status.Error(codes.PermissionDenied, common.ErrForbidden.Error()+": account is blocked")
		}
	}

	ctx = withCaller(ctx, Caller{UserID: userID, Role: claims.Role})

	return handler(ctx, req)
}

func (s *GRPCServer) timeoutInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if s.requestTimeout <= 0 {
		return handler(ctx, req)
	}
	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()
	return handler(ctx, req)
}

// errorInterceptor turns domain errors into status errors. Errors that
// already carry a status pass through.
func (s *GRPCServer) errorInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	resp, err := handler(ctx, req)
	if err == nil {
		return resp, nil
	}
	if _, ok := status.FromError(err); ok {
		return nil, err
	}

	code, msg := statusFor(err)
	if code == codes.Internal {
		s.logger.Error(ctx, "request failed", "method", info.FullMethod, "error", err)
	} else {
		s.logger.Debug(ctx, "request rejected", "method", info.FullMethod, "code", code.String(), "error", err)
	}
	return nil, status.Error(code, msg)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	metrics.RPCDuration.WithLabelValues(path.Base(info.FullMethod), code.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RPCErrors.WithLabelValues(code.String()).Inc()
	}
	return resp, err
}
