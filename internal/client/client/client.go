package client

import (
	"context"

	"github.com/dmitrijs2005/antirev/internal/client/models"
)

// Client is the remote API used by the CLI services.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Signup(ctx context.Context, username string, password []byte) (*models.Account, error)
	Login(ctx context.Context, username string, password []byte) (string, error)
	WhoAmI(ctx context.Context) (*models.Account, error)
	CreatePost(ctx context.Context, title, postType, content string) (*models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	DeleteAccount(ctx context.Context, username string, password []byte) (bool, error)
	SetSessionToken(token string)
}
