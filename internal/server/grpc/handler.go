package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/antirev/internal/common"
	pb "github.com/dmitrijs2005/antirev/internal/proto"
	"github.com/dmitrijs2005/antirev/internal/server/models"
	"github.com/dmitrijs2005/antirev/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Signup(ctx context.Context, req *pb.SignupRequest) (*pb.AccountResponse, error) {
	if strings.TrimSpace(req.GetUsername()) == "" || req.GetPassword() == "" {
		return nil, status.Error(codes.InvalidArgument, "username and password are required")
	}

	account, err := s.accounts.CreateAccount(ctx, req.GetUsername(), req.GetPassword())
	if err != nil {
		return nil, s.toStatus(ctx, "signup", err)
	}

	s.logger.Info(ctx, "Registered", "username", account.Username)
	return &pb.AccountResponse{Id: account.ID, Username: account.Username}, nil
}

// Login returns a token only on success. The token minted for a failed
// attempt never leaves the server.
func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	res, err := s.sessions.Authenticate(ctx, req.GetUsername(), req.GetPassword())
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}
	if !res.Success() {
		return nil, status.Error(codes.Unauthenticated, "invalid username or password")
	}
	return &pb.LoginResponse{Token: res.Token}, nil
}

func (s *GRPCServer) WhoAmI(ctx context.Context, req *pb.WhoAmIRequest) (*pb.AccountResponse, error) {
	token, ok := sessionTokenFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing session token")
	}

	account, err := s.sessions.ResolveSession(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.Unauthenticated, "invalid session")
		}
		return nil, s.toStatus(ctx, "whoami", err)
	}
	return &pb.AccountResponse{Id: account.ID, Username: account.Username}, nil
}

func (s *GRPCServer) CreatePost(ctx context.Context, req *pb.CreatePostRequest) (*pb.Post, error) {
	token, ok := sessionTokenFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing session token")
	}

	postType, err := models.ParsePostType(req.GetType())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	post, err := s.posts.CreatePost(ctx, req.GetTitle(), postType, req.GetContent(), token)
	if err != nil {
		return nil, s.toStatus(ctx, "create post", err)
	}

	return postToProto(*post), nil
}

func (s *GRPCServer) ListPosts(ctx context.Context, req *pb.ListPostsRequest) (*pb.ListPostsResponse, error) {
	list, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, "list posts", err)
	}

	resp := &pb.ListPostsResponse{Posts: make([]*pb.Post, 0, len(list))}
	for _, p := range list {
		resp.Posts = append(resp.Posts, postToProto(p))
	}
	return resp, nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *pb.DeleteAccountRequest) (*pb.DeleteAccountResponse, error) {
	outcome, err := s.accounts.DeleteAccount(ctx, req.GetUsername(), req.GetPassword())
	if err != nil {
		return nil, s.toStatus(ctx, "delete account", err)
	}
	return &pb.DeleteAccountResponse{Deleted: outcome == services.OutcomeSuccess}, nil
}

func postToProto(p models.Post) *pb.Post {
	return &pb.Post{
		Id:        p.ID,
		OwnerId:   p.OwnerID,
		Title:     p.Title,
		Type:      string(p.Type),
		Content:   p.Content,
		CreatedAt: timestamppb.New(p.CreatedAt),
	}
}

// toStatus maps service errors onto gRPC codes. Unexpected errors are logged
// and reported as Internal without details.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	default:
		s.logger.Error(ctx, op+" failed", "error", err)
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
