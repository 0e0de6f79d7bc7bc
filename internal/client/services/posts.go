package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/antirev/internal/client/client"
	"github.com/dmitrijs2005/antirev/internal/client/models"
)

// PostService publishes and lists posts. Validation of title and type is
// left to the server; values are only trimmed here.
type PostService interface {
	Create(ctx context.Context, title, postType, content string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
}

type postService struct {
	client client.Client
}

func NewPostService(client client.Client) PostService {
	return &postService{client: client}
}

func (s *postService) Create(ctx context.Context, title, postType, content string) (*models.Post, error) {
	return s.client.CreatePost(ctx, strings.TrimSpace(title), strings.TrimSpace(postType), content)
}

func (s *postService) List(ctx context.Context) ([]models.Post, error) {
	return s.client.ListPosts(ctx)
}
