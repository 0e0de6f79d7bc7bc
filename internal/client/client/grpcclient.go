package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/antirev/internal/client/models"
	"github.com/dmitrijs2005/antirev/internal/common"
	pb "github.com/dmitrijs2005/antirev/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCClient talks to the Postboard service. The session token set with
// SetSessionToken is attached to every outgoing call.
type GRPCClient struct {
	endpointURL string
	callTimeout time.Duration
	conn        *grpc.ClientConn
	client      pb.PostboardServiceClient

	mu           sync.RWMutex
	sessionToken string
}

func withSessionToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.SessionTokenHeaderName)
	md.Set(common.SessionTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) sessionTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.currentToken(); token != "" {
		ctx = withSessionToken(ctx, token)
	}

	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewPostboardClientService connects to endpointURL. Extra dial options are
// appended after the defaults.
func NewPostboardClientService(endpointURL string, callTimeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, callTimeout: callTimeout}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.sessionTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewPostboardServiceClient(conn)
	return nil
}

func (s *GRPCClient) SetSessionToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionToken = token
}

func (s *GRPCClient) currentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionToken
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.GetStatus() != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) Signup(ctx context.Context, username string, password []byte) (*models.Account, error) {
	req := &pb.SignupRequest{Username: username, Password: string(password)}

	resp, err := s.client.Signup(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &models.Account{ID: resp.GetId(), Username: resp.GetUsername()}, nil
}

// Login authenticates and remembers the returned token for later calls.
func (s *GRPCClient) Login(ctx context.Context, username string, password []byte) (string, error) {
	req := &pb.LoginRequest{Username: username, Password: string(password)}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}

	s.SetSessionToken(resp.GetToken())
	return resp.GetToken(), nil
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (*models.Account, error) {
	resp, err := s.client.WhoAmI(ctx, &pb.WhoAmIRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &models.Account{ID: resp.GetId(), Username: resp.GetUsername()}, nil
}

func (s *GRPCClient) CreatePost(ctx context.Context, title, postType, content string) (*models.Post, error) {
	req := &pb.CreatePostRequest{Title: title, Type: postType, Content: content}

	resp, err := s.client.CreatePost(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	p := postFromProto(resp)
	return &p, nil
}

func (s *GRPCClient) ListPosts(ctx context.Context) ([]models.Post, error) {
	resp, err := s.client.ListPosts(ctx, &pb.ListPostsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}

	posts := make([]models.Post, 0, len(resp.GetPosts()))
	for _, p := range resp.GetPosts() {
		posts = append(posts, postFromProto(p))
	}
	return posts, nil
}

func (s *GRPCClient) DeleteAccount(ctx context.Context, username string, password []byte) (bool, error) {
	req := &pb.DeleteAccountRequest{Username: username, Password: string(password)}

	resp, err := s.client.DeleteAccount(ctx, req)
	if err != nil {
		return false, s.mapError(err)
	}

	return resp.GetDeleted(), nil
}

func postFromProto(p *pb.Post) models.Post {
	return models.Post{
		ID:        p.GetId(),
		OwnerID:   p.GetOwnerId(),
		Title:     p.GetTitle(),
		Type:      p.GetType(),
		Content:   p.GetContent(),
		CreatedAt: p.GetCreatedAt().AsTime(),
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
