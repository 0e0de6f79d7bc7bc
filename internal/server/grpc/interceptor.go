package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/antirev/internal/common"
	pb "github.com/dmitrijs2005/antirev/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const sessionTokenKey ctxKey = "sessionToken"

// methods that cannot run without a session token
var protectedMethods = map[string]bool{
	pb.PostboardService_WhoAmI_FullMethodName:     true,
	pb.PostboardService_CreatePost_FullMethodName: true,
}

// sessionTokenInterceptor rejects protected calls that carry no token and
// hands the token to the handler via the context. Whether the token is valid
// is decided by the session service.
func (s *GRPCServer) sessionTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if protectedMethods[info.FullMethod] {
		var token string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(common.SessionTokenHeaderName); len(values) > 0 {
				token = values[0]
			}
		}
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "missing session token")
		}
		ctx = context.WithValue(ctx, sessionTokenKey, token)
	}

	return handler(ctx, req)
}

func sessionTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionTokenKey).(string)
	return token, ok && token != ""
}

// loggingInterceptor tags every call with a random request id and logs its
// method, status code and duration. Failed calls are logged at warn level.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	requestID, err := common.MakeRandHexString(8)
	if err != nil {
		requestID = "-"
	}

	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"request_id", requestID, "method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
	if code == codes.OK {
		s.logger.Debug(ctx, "rpc handled", args...)
	} else {
		s.logger.Warn(ctx, "rpc failed", args...)
	}

	return resp, err
}
