package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/antirev/internal/common"
	"github.com/dmitrijs2005/antirev/internal/logging"
	"github.com/dmitrijs2005/antirev/internal/server/models"
	"github.com/dmitrijs2005/antirev/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// newSessionToken is a seam for tests.
var newSessionToken = uuid.New

// SessionService issues and resolves session tokens. An account holds at
// most one token; each successful login replaces it.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	accounts    *AccountService
	logger      logging.Logger
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, accounts *AccountService, logger logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		accounts:    accounts,
		logger:      logger.With("module", "sessions"),
	}
}

// Authenticate checks the credentials and, on success, binds a fresh token
// to the account. The token is minted before the lookup so both branches do
// the same work; on failure it is returned unsaved and resolves to nothing.
func (s *SessionService) Authenticate(ctx context.Context, username, password string) (AuthResult, error) {
	token := newSessionToken()
	result := AuthResult{Token: token.String(), Outcome: OutcomeAuthenticationFailed}

	account, err := s.accounts.checkCredentials(ctx, username, password)
	if err != nil {
		return AuthResult{}, err
	}
	if account == nil {
		s.logger.Debug(ctx, "authentication failed")
		return result, nil
	}

	if err := s.repomanager.Accounts(s.db).SetSessionToken(ctx, account.ID, token); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return result, nil
		}
		return AuthResult{}, fmt.Errorf("error storing session token: %w", err)
	}

	s.logger.Info(ctx, "session issued", "account_id", account.ID)
	result.Outcome = OutcomeSuccess
	return result, nil
}

// ResolveSession returns the account bound to token or common.ErrorNotFound.
func (s *SessionService) ResolveSession(ctx context.Context, token string) (*models.Account, error) {
	return s.accounts.FindBySessionToken(ctx, token)
}
