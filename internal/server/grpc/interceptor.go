package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/aleksvarts/classroom-auth/internal/common"
	"github.com/aleksvarts/classroom-auth/internal/server/auth"
)

type ctxKey string

// SubjectKey and ScopeKey carry the authenticated identity into handlers.
const (
	SubjectKey ctxKey = "subject"
	ScopeKey   ctxKey = "scope"
)

const healthServicePrefix = "/grpc.health.v1.Health/"

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if strings.HasPrefix(info.FullMethod, healthServicePrefix) {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := s.auth.Validate(ctx, accessToken, auth.ModeStandard)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = context.WithValue(ctx, SubjectKey, claims.Subject)
	ctx = context.WithValue(ctx, ScopeKey, claims.Scope)

	return handler(ctx, req)
}
