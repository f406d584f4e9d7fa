package grpc

import (
	"context"
	"path"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	pb "github.com/dmitrijs2005/evidencevault/internal/proto"
	"github.com/dmitrijs2005/evidencevault/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const collectionKey ctxKey = "collection"

func collectionFromContext(ctx context.Context) (string, bool) {
	c, ok := ctx.Value(collectionKey).(string)
	return c, ok && c != ""
}

// accessTokenInterceptor authenticates every call except Ping and stores
// the token's collection in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if info.FullMethod == pb.EvidenceStore_Ping_FullMethodName {
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

	collection, err := auth.GetCollectionFromToken(accessToken, s.jwtSecret)
	if err != nil {
		s.logger.Warn(ctx, "rejected token", "method", info.FullMethod, "error", err)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = context.WithValue(ctx, collectionKey, collection)
	return handler(ctx, req)
}

func (s *GRPCServer) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	s.metrics.Request(path.Base(info.FullMethod), status.Code(err).String())
	return resp, err
}
