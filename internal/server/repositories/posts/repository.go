package posts

import (
	"context"

	"github.com/dmitrijs2005/antirev/internal/server/models"
)

type Repository interface {
	// Create inserts post and fills in its ID and CreatedAt. A missing owner
	// yields common.ErrorNotFound.
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	// List returns every post in creation order.
	List(ctx context.Context) ([]models.Post, error)
	// DeleteByOwner removes all posts of ownerID and reports how many went.
	DeleteByOwner(ctx context.Context, ownerID int64) (int64, error)
}
