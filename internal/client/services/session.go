// Package services contains application services for the antirev CLI.
// This file defines the session service: signup, login and logout, plus
// keeping the session token in local state between runs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/antirev/internal/client/client"
	"github.com/dmitrijs2005/antirev/internal/client/models"
	"github.com/dmitrijs2005/antirev/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/antirev/internal/dbx"
)

const keyUsername = "username"

// ErrNotLoggedIn is returned by operations that need a stored session.
var ErrNotLoggedIn = errors.New("not logged in")

// SessionService defines account and session operations for the CLI.
//
// Contract:
//   - Restore: load a stored session token into the client; returns the
//     username it belongs to, or "" when there is none.
//   - Login: authenticate and persist the issued token locally.
//   - Logout: forget the local token. The server keeps its copy until the
//     next login overwrites it.
//   - DeleteAccount: delete an account; the local session is dropped when
//     it belonged to that account.
type SessionService interface {
	Restore(ctx context.Context) (string, error)
	Signup(ctx context.Context, username string, password []byte) (*models.Account, error)
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (*models.Account, error)
	DeleteAccount(ctx context.Context, username string, password []byte) (bool, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type sessionService struct {
	client client.Client
	db     *sql.DB
}

// NewSessionService constructs a SessionService bound to the API client and
// the local state database.
func NewSessionService(client client.Client, db *sql.DB) SessionService {
	return &sessionService{client: client, db: db}
}

func (s *sessionService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *sessionService) Restore(ctx context.Context) (string, error) {
	repo := s.getMetadataRepo(s.db)

	token, err := repo.Get(ctx, metadata.KeySessionToken)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", nil
	}

	username, err := repo.Get(ctx, keyUsername)
	if err != nil {
		return "", err
	}

	s.client.SetSessionToken(string(token))
	return string(username), nil
}

func (s *sessionService) Signup(ctx context.Context, username string, password []byte) (*models.Account, error) {
	return s.client.Signup(ctx, username, password)
}

// Login authenticates against the server and stores the token together with
// the username in one transaction. A failed login leaves local state alone.
func (s *sessionService) Login(ctx context.Context, username string, password []byte) error {
	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := s.saveSession(ctx, username, token); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

func (s *sessionService) saveSession(ctx context.Context, username, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.getMetadataRepo(tx)
		if err := repo.Set(ctx, keyUsername, []byte(username)); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeySessionToken, []byte(token))
	})
}

func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.getMetadataRepo(s.db).Clear(ctx); err != nil {
		return err
	}
	s.client.SetSessionToken("")
	return nil
}

func (s *sessionService) WhoAmI(ctx context.Context) (*models.Account, error) {
	token, err := s.getMetadataRepo(s.db).Get(ctx, metadata.KeySessionToken)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrNotLoggedIn
	}
	return s.client.WhoAmI(ctx)
}

func (s *sessionService) DeleteAccount(ctx context.Context, username string, password []byte) (bool, error) {
	deleted, err := s.client.DeleteAccount(ctx, username, password)
	if err != nil || !deleted {
		return deleted, err
	}

	current, err := s.getMetadataRepo(s.db).Get(ctx, keyUsername)
	if err != nil {
		return true, err
	}
	if string(current) == username {
		if err := s.Logout(ctx); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (s *sessionService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *sessionService) Close(ctx context.Context) error {
	return s.client.Close()
}
