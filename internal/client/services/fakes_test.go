package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/antirev/internal/client/client"
	"github.com/dmitrijs2005/antirev/internal/client/models"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertMeta(t *testing.T, db *sql.DB, k string, v []byte) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO metadata(key,value) VALUES(?,?)`, k, v)
	require.NoError(t, err)
}

func getMeta(t *testing.T, db *sql.DB, k string) []byte {
	t.Helper()
	var v []byte
	err := db.QueryRow(`SELECT value FROM metadata WHERE key=?`, k).Scan(&v)
	if err == sql.ErrNoRows {
		return nil
	}
	require.NoError(t, err)
	return v
}

// fakeClient implements client.Client with preset results.
type fakeClient struct {
	CloseErr error
	PingErr  error

	SignupRet *models.Account
	SignupErr error

	LoginToken string
	LoginErr   error

	WhoAmIRet *models.Account
	WhoAmIErr error

	CreateErr error
	Posts     []models.Post
	ListErr   error

	DeleteRet bool
	DeleteErr error

	Token      string
	LastCreate [3]string
	LastDelete string
}

func (f *fakeClient) Close() error                   { return f.CloseErr }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }
func (f *fakeClient) SetSessionToken(token string)   { f.Token = token }

func (f *fakeClient) Signup(ctx context.Context, username string, password []byte) (*models.Account, error) {
	if f.SignupErr != nil {
		return nil, f.SignupErr
	}
	if f.SignupRet != nil {
		return f.SignupRet, nil
	}
	return &models.Account{ID: 1, Username: username}, nil
}

func (f *fakeClient) Login(ctx context.Context, username string, password []byte) (string, error) {
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.Token = f.LoginToken
	return f.LoginToken, nil
}

func (f *fakeClient) WhoAmI(ctx context.Context) (*models.Account, error) {
	return f.WhoAmIRet, f.WhoAmIErr
}

func (f *fakeClient) CreatePost(ctx context.Context, title, postType, content string) (*models.Post, error) {
	f.LastCreate = [3]string{title, postType, content}
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	p := models.Post{ID: int64(len(f.Posts) + 1), Title: title, Type: postType, Content: content}
	f.Posts = append(f.Posts, p)
	return &p, nil
}

func (f *fakeClient) ListPosts(ctx context.Context) ([]models.Post, error) {
	return f.Posts, f.ListErr
}

func (f *fakeClient) DeleteAccount(ctx context.Context, username string, password []byte) (bool, error) {
	f.LastDelete = username
	return f.DeleteRet, f.DeleteErr
}
