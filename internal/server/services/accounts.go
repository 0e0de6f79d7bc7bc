// Package services implements the account, session and post operations on
// top of the repositories.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/antirev/internal/common"
	"github.com/dmitrijs2005/antirev/internal/dbx"
	"github.com/dmitrijs2005/antirev/internal/logging"
	"github.com/dmitrijs2005/antirev/internal/server/models"
	"github.com/dmitrijs2005/antirev/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PasswordHasher derives and checks self-describing password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	logger      logging.Logger
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		logger:      logger.With("module", "accounts"),
	}
}

// CreateAccount registers username with a hash of password. The lookup is
// only a fast path; the unique index on username decides concurrent signups,
// and both report common.ErrorAlreadyExists.
func (s *AccountService) CreateAccount(ctx context.Context, username, password string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)

	_, err := repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error checking username: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account, err := repo.Create(ctx, &models.Account{Username: username, PasswordHash: digest})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account created", "account_id", account.ID)
	return account, nil
}

func (s *AccountService) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByUsername(ctx, username)
}

// FindBySessionToken returns the account currently holding token. Strings
// that are not valid tokens can never match and yield common.ErrorNotFound.
func (s *AccountService) FindBySessionToken(ctx context.Context, token string) (*models.Account, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Accounts(s.db).GetBySessionToken(ctx, id)
}

// DeleteAccount removes the account and every post it owns in one
// transaction. Wrong credentials leave everything untouched and yield
// OutcomeAuthenticationFailed.
func (s *AccountService) DeleteAccount(ctx context.Context, username, password string) (Outcome, error) {
	account, err := s.checkCredentials(ctx, username, password)
	if err != nil {
		return 0, err
	}
	if account == nil {
		return OutcomeAuthenticationFailed, nil
	}

	var removed int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := deletePostsByOwner(ctx, s.repomanager.Posts(tx), account.ID)
		if err != nil {
			return err
		}
		removed = n
		return s.repomanager.Accounts(tx).Delete(ctx, account.ID)
	})

	if err != nil {
		// someone else removed it between the check and the delete
		if errors.Is(err, common.ErrorNotFound) {
			return OutcomeAuthenticationFailed, nil
		}
		return 0, fmt.Errorf("error deleting account: %w", err)
	}

	s.logger.Info(ctx, "account deleted", "account_id", account.ID, "posts_removed", removed)
	return OutcomeSuccess, nil
}

// checkCredentials returns the account when password matches its digest and
// nil when the username is unknown or the password is wrong.
func (s *AccountService) checkCredentials(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error looking up account: %w", err)
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("error verifying password: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return account, nil
}
