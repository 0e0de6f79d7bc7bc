package accounts

import (
	"context"

	"github.com/dmitrijs2005/antirev/internal/server/models"
	"github.com/google/uuid"
)

// Repository persists accounts. Lookups return common.ErrorNotFound when no
// row matches.
type Repository interface {
	// Create inserts a new account and fills in its ID and CreatedAt.
	// A duplicate username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetBySessionToken(ctx context.Context, token uuid.UUID) (*models.Account, error)
	// SetSessionToken overwrites the account's token, dropping any previous one.
	SetSessionToken(ctx context.Context, accountID int64, token uuid.UUID) error
	Delete(ctx context.Context, accountID int64) error
}
