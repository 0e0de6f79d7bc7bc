package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/antirev/internal/common"
	"github.com/dmitrijs2005/antirev/internal/cryptox"
	"github.com/dmitrijs2005/antirev/internal/dbx"
	"github.com/dmitrijs2005/antirev/internal/logging"
	"github.com/dmitrijs2005/antirev/internal/server/models"
	"github.com/dmitrijs2005/antirev/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/antirev/internal/server/repositories/posts"
	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the two tables. It enforces the
// username unique index and the owner foreign key like PostgreSQL would.
type memStore struct {
	mu       sync.Mutex
	accounts map[int64]*models.Account
	posts    map[int64]models.Post
	nextAcc  int64
	nextPost int64
	calls    []string

	// error injection
	getByUsernameErr error
	createAccountErr error
	setTokenErr      error
	deletePostsErr   error
	deleteAccountErr error
	createPostErr    error
	listErr          error
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[int64]*models.Account{},
		posts:    map[int64]models.Post{},
	}
}

func (m *memStore) record(call string) {
	m.calls = append(m.calls, call)
}

type memAccounts struct{ *memStore }

func (r memAccounts) Create(_ context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("accounts.Create")

	if r.createAccountErr != nil {
		return nil, r.createAccountErr
	}
	for _, existing := range r.accounts {
		if existing.Username == a.Username {
			return nil, common.ErrorAlreadyExists
		}
	}
	r.nextAcc++
	stored := *a
	stored.ID = r.nextAcc
	stored.CreatedAt = time.Now()
	r.accounts[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (r memAccounts) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("accounts.GetByUsername")

	if r.getByUsernameErr != nil {
		return nil, r.getByUsernameErr
	}
	for _, a := range r.accounts {
		if a.Username == username {
			out := *a
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memAccounts) GetBySessionToken(_ context.Context, token uuid.UUID) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("accounts.GetBySessionToken")

	for _, a := range r.accounts {
		if a.SessionToken != nil && *a.SessionToken == token {
			out := *a
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memAccounts) SetSessionToken(_ context.Context, id int64, token uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("accounts.SetSessionToken")

	if r.setTokenErr != nil {
		return r.setTokenErr
	}
	a, ok := r.accounts[id]
	if !ok {
		return common.ErrorNotFound
	}
	t := token
	a.SessionToken = &t
	return nil
}

func (r memAccounts) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("accounts.Delete")

	if r.deleteAccountErr != nil {
		return r.deleteAccountErr
	}
	if _, ok := r.accounts[id]; !ok {
		return common.ErrorNotFound
	}
	for _, p := range r.posts {
		if p.OwnerID == id {
			// the explicit cascade must already have run
			panic("foreign key violation: posts still reference account")
		}
	}
	delete(r.accounts, id)
	return nil
}

type memPosts struct{ *memStore }

func (r memPosts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("posts.Create")

	if r.createPostErr != nil {
		return nil, r.createPostErr
	}
	if _, ok := r.accounts[p.OwnerID]; !ok {
		return nil, common.ErrorNotFound
	}
	r.nextPost++
	stored := *p
	stored.ID = r.nextPost
	stored.CreatedAt = time.Now()
	r.posts[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r memPosts) List(_ context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("posts.List")

	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memPosts) DeleteByOwner(_ context.Context, ownerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record("posts.DeleteByOwner")

	if r.deletePostsErr != nil {
		return 0, r.deletePostsErr
	}
	var n int64
	for id, p := range r.posts {
		if p.OwnerID == ownerID {
			delete(r.posts, id)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	store *memStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Accounts(dbx.DBTX) accounts.Repository        { return memAccounts{m.store} }
func (m *fakeRepoManager) Posts(dbx.DBTX) posts.Repository              { return memPosts{m.store} }

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

var testHasherParams = cryptox.Params{Memory: 64, Iterations: 1, Parallelism: 1}

type fixture struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	store    *memStore
	accounts *AccountService
	sessions *SessionService
	posts    *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := newMemStore()
	rm := &fakeRepoManager{store: store}
	log := logging.Nop{}

	acc := NewAccountService(db, rm, cryptox.NewArgon2Hasher(testHasherParams), log)
	sess := NewSessionService(db, rm, acc, log)
	ps := NewPostService(db, rm, sess, log)

	return &fixture{db: db, mock: mock, store: store, accounts: acc, sessions: sess, posts: ps}
}
