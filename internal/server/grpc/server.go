// Package grpc exposes the account, session and post services over gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/antirev/internal/logging"
	pb "github.com/dmitrijs2005/antirev/internal/proto"
	"github.com/dmitrijs2005/antirev/internal/server/models"
	"github.com/dmitrijs2005/antirev/internal/server/services"
	"google.golang.org/grpc"
)

type accountSvc interface {
	CreateAccount(ctx context.Context, username, password string) (*models.Account, error)
	DeleteAccount(ctx context.Context, username, password string) (services.Outcome, error)
}

type sessionSvc interface {
	Authenticate(ctx context.Context, username, password string) (services.AuthResult, error)
	ResolveSession(ctx context.Context, token string) (*models.Account, error)
}

type postSvc interface {
	CreatePost(ctx context.Context, title string, postType models.PostType, content, token string) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
}

type GRPCServer struct {
	pb.UnimplementedPostboardServiceServer

	address         string
	shutdownTimeout time.Duration
	accounts        accountSvc
	sessions        sessionSvc
	posts           postSvc
	logger          logging.Logger
}

func NewGRPCServer(address string, shutdownTimeout time.Duration, l logging.Logger,
	as accountSvc, ss sessionSvc, ps postSvc) *GRPCServer {
	return &GRPCServer{
		address:         address,
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "grpc_server"),
		accounts:        as,
		sessions:        ss,
		posts:           ps,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is cancelled, then stops gracefully. Calls
// still running after the shutdown timeout are cut off.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.sessionTokenInterceptor))
	pb.RegisterPostboardServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")

		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(s.shutdownTimeout):
			s.logger.Warn(context.Background(), "graceful stop timed out, forcing")
			srv.Stop()
		}
	}()

	return srv.Serve(lis)
}
