package grpc

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/antirev/internal/common"
	"github.com/dmitrijs2005/antirev/internal/logging"
	pb "github.com/dmitrijs2005/antirev/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestServer() *GRPCServer {
	return newServer(&fakeAccounts{}, &fakeSessions{}, &fakePosts{})
}

func TestInterceptor_Unprotected_AllowsWithoutToken(t *testing.T) {
	s := newTestServer()

	for _, method := range []string{pb.PostboardService_Ping_FullMethodName, pb.PostboardService_Signup_FullMethodName, pb.PostboardService_Login_FullMethodName, pb.PostboardService_ListPosts_FullMethodName, pb.PostboardService_DeleteAccount_FullMethodName} {
		info := &grpc.UnaryServerInfo{FullMethod: method}
		handlerCalled := false

		h := func(ctx context.Context, req any) (any, error) {
			handlerCalled = true
			return "ok", nil
		}

		resp, err := s.sessionTokenInterceptor(context.Background(), nil, info, h)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", method, err)
		}
		if !handlerCalled || resp != "ok" {
			t.Fatalf("%s: handler not called properly", method)
		}
	}
}

func TestInterceptor_Protected_MissingToken(t *testing.T) {
	s := newTestServer()

	for _, method := range []string{pb.PostboardService_WhoAmI_FullMethodName, pb.PostboardService_CreatePost_FullMethodName} {
		info := &grpc.UnaryServerInfo{FullMethod: method}
		h := func(ctx context.Context, req any) (any, error) {
			t.Fatal("handler should not be called when token missing")
			return nil, nil
		}

		_, err := s.sessionTokenInterceptor(context.Background(), nil, info, h)
		if status.Code(err) != codes.Unauthenticated {
			t.Fatalf("%s: expected Unauthenticated, got %v", method, status.Code(err))
		}
		if status.Convert(err).Message() != "missing session token" {
			t.Fatalf("unexpected message %q", status.Convert(err).Message())
		}
	}
}

func TestInterceptor_Protected_EmptyToken(t *testing.T) {
	s := newTestServer()

	md := metadata.New(map[string]string{common.SessionTokenHeaderName: ""})
	ctx := metadata.NewIncomingContext(context.Background(), md)
	info := &grpc.UnaryServerInfo{FullMethod: pb.PostboardService_CreatePost_FullMethodName}

	_, err := s.sessionTokenInterceptor(ctx, nil, info, func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called")
		return nil, nil
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
}

func TestInterceptor_Protected_PutsTokenIntoContext(t *testing.T) {
	s := newTestServer()

	md := metadata.New(map[string]string{common.SessionTokenHeaderName: "tok-123"})
	ctx := metadata.NewIncomingContext(context.Background(), md)
	info := &grpc.UnaryServerInfo{FullMethod: pb.PostboardService_WhoAmI_FullMethodName}

	var got string
	h := func(ctx context.Context, req any) (any, error) {
		got, _ = sessionTokenFromContext(ctx)
		return "ok", nil
	}

	if _, err := s.sessionTokenInterceptor(ctx, nil, info, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "tok-123" {
		t.Fatalf("token not propagated, got %q", got)
	}
}

func TestLoggingInterceptor_LogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	s := NewGRPCServer("127.0.0.1:0", time.Second, logging.New(&buf, "debug"), &fakeAccounts{}, &fakeSessions{}, &fakePosts{})

	info := &grpc.UnaryServerInfo{FullMethod: pb.PostboardService_Ping_FullMethodName}
	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return "ok", nil
	})
	if err != nil || resp != "ok" {
		t.Fatalf("unexpected result %v, %v", resp, err)
	}

	info = &grpc.UnaryServerInfo{FullMethod: pb.PostboardService_WhoAmI_FullMethodName}
	_, err = s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("error must pass through, got %v", err)
	}

	out := buf.String()
	for _, want := range []string{"rpc handled", "rpc failed", pb.PostboardService_Ping_FullMethodName, pb.PostboardService_WhoAmI_FullMethodName, "Unauthenticated", "request_id"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output misses %q:\n%s", want, out)
		}
	}
}
