package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/antirev/internal/common"
	"github.com/dmitrijs2005/antirev/internal/logging"
	"github.com/dmitrijs2005/antirev/internal/server/models"
	"github.com/dmitrijs2005/antirev/internal/server/repositories/posts"
	"github.com/dmitrijs2005/antirev/internal/server/repositories/repomanager"
)

// SessionResolver maps a session token to its account.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.Account, error)
}

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sessions    SessionResolver
	logger      logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, sessions SessionResolver, logger logging.Logger) *PostService {
	return &PostService{
		db:          db,
		repomanager: m,
		sessions:    sessions,
		logger:      logger.With("module", "posts"),
	}
}

// CreatePost stores a post owned by the account behind token. Unknown tokens
// and owners deleted before the insert both yield common.ErrorUnauthorized.
func (s *PostService) CreatePost(ctx context.Context, title string, postType models.PostType, content, token string) (*models.Post, error) {
	owner, err := s.sessions.ResolveSession(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error resolving session: %w", err)
	}

	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
	}
	if !postType.Valid() {
		return nil, fmt.Errorf("%w: unknown post type %q", common.ErrorValidation, postType)
	}

	post, err := s.repomanager.Posts(s.db).Create(ctx, &models.Post{
		OwnerID: owner.ID,
		Title:   title,
		Type:    postType,
		Content: content,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	s.logger.Info(ctx, "post created", "post_id", post.ID, "account_id", owner.ID)
	return post, nil
}

// ListPosts returns every post in creation order.
func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	list, err := s.repomanager.Posts(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return list, nil
}

// deletePostsByOwner is the cascade step of AccountService.DeleteAccount and
// must run on the same transaction as the account delete.
func deletePostsByOwner(ctx context.Context, repo posts.Repository, ownerID int64) (int64, error) {
	n, err := repo.DeleteByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("error deleting posts: %w", err)
	}
	return n, nil
}
