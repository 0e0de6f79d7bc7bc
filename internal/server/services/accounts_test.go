package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/antirev/internal/common"
	"github.com/dmitrijs2005/antirev/internal/cryptox"
	"github.com/dmitrijs2005/antirev/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount_SecondSignupAlreadyExists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.accounts.CreateAccount(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)
	assert.Nil(t, first.SessionToken)

	_, err = f.accounts.CreateAccount(ctx, "alice", "other")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	assert.Len(t, f.store.accounts, 1)
}

func TestCreateAccount_UsernameIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)
	_, err = f.accounts.CreateAccount(ctx, "Alice", "pw")
	require.NoError(t, err)

	assert.Len(t, f.store.accounts, 2)
}

func TestCreateAccount_StoresDigestNotPassword(t *testing.T) {
	f := newFixture(t)

	a, err := f.accounts.CreateAccount(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	stored := f.store.accounts[a.ID]
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	ok, err := cryptox.NewArgon2Hasher(testHasherParams).Verify("secret1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateAccount_UniqueIndexWinsRace(t *testing.T) {
	f := newFixture(t)
	// the pre-check sees nothing, the insert hits the unique index
	f.store.createAccountErr = common.ErrorAlreadyExists

	_, err := f.accounts.CreateAccount(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Empty(t, f.store.accounts)
}

func TestCreateAccount_NoCredentialRules(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.CreateAccount(context.Background(), "", "")
	require.NoError(t, err)

	_, err = f.accounts.CreateAccount(context.Background(), "   ", "")
	require.NoError(t, err)
	assert.Len(t, f.store.accounts, 2)

	_, err = f.accounts.CreateAccount(context.Background(), "", "pw")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreateAccount_StorageErrors(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		f := newFixture(t)
		f.store.getByUsernameErr = errBoom{}

		_, err := f.accounts.CreateAccount(context.Background(), "alice", "pw")
		require.ErrorContains(t, err, "error checking username: boom")
	})
	t.Run("insert", func(t *testing.T) {
		f := newFixture(t)
		f.store.createAccountErr = errBoom{}

		_, err := f.accounts.CreateAccount(context.Background(), "alice", "pw")
		require.ErrorContains(t, err, "error creating account: boom")
		assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
	})
}

func TestFindByUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.accounts.CreateAccount(ctx, "alice", "pw")
	require.NoError(t, err)

	got, err := f.accounts.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.accounts.FindByUsername(ctx, "bob")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFindBySessionToken_GarbageToken(t *testing.T) {
	f := newFixture(t)

	for _, tok := range []string{"", "not-a-uuid", "00000000-0000-0000-0000"} {
		_, err := f.accounts.FindBySessionToken(context.Background(), tok)
		require.ErrorIs(t, err, common.ErrorNotFound, tok)
	}
	assert.Empty(t, f.store.calls)
}

func TestDeleteAccount_CascadesPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, err := f.accounts.CreateAccount(ctx, "alice", "secret1")
	require.NoError(t, err)
	bob, err := f.accounts.CreateAccount(ctx, "bob", "secret2")
	require.NoError(t, err)

	aliceAuth, err := f.sessions.Authenticate(ctx, "alice", "secret1")
	require.NoError(t, err)
	bobAuth, err := f.sessions.Authenticate(ctx, "bob", "secret2")
	require.NoError(t, err)

	for _, title := range []string{"a1", "a2"} {
		_, err := f.posts.CreatePost(ctx, title, models.PostTypeText, "x", aliceAuth.Token)
		require.NoError(t, err)
	}
	_, err = f.posts.CreatePost(ctx, "b1", models.PostTypeURL, "https://example.com", bobAuth.Token)
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.store.calls = nil

	outcome, err := f.accounts.DeleteAccount(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, outcome)
	require.NoError(t, f.mock.ExpectationsWereMet())

	assert.Equal(t, []string{"accounts.GetByUsername", "posts.DeleteByOwner", "accounts.Delete"}, f.store.calls)

	_, err = f.accounts.FindByUsername(ctx, "alice")
	require.ErrorIs(t, err, common.ErrorNotFound)

	list, err := f.posts.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	for _, p := range list {
		assert.NotEqual(t, alice.ID, p.OwnerID)
	}
	assert.Equal(t, bob.ID, list[0].OwnerID)
}

func TestDeleteAccount_BadCredentialsNoMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.CreateAccount(ctx, "alice", "secret1")
	require.NoError(t, err)

	outcome, err := f.accounts.DeleteAccount(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAuthenticationFailed, outcome)

	outcome, err = f.accounts.DeleteAccount(ctx, "nobody", "secret1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAuthenticationFailed, outcome)

	// no transaction was opened
	require.NoError(t, f.mock.ExpectationsWereMet())
	assert.Len(t, f.store.accounts, 1)
	assert.NotContains(t, f.store.calls, "accounts.Delete")
}

func TestDeleteAccount_CascadeFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.CreateAccount(ctx, "alice", "secret1")
	require.NoError(t, err)

	f.store.deletePostsErr = errBoom{}
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err = f.accounts.DeleteAccount(ctx, "alice", "secret1")
	require.ErrorContains(t, err, "error deleting posts: boom")
	require.NoError(t, f.mock.ExpectationsWereMet())

	assert.Len(t, f.store.accounts, 1)
	assert.NotContains(t, f.store.calls, "accounts.Delete")
}

func TestDeleteAccount_AlreadyGone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.CreateAccount(ctx, "alice", "secret1")
	require.NoError(t, err)

	f.store.deleteAccountErr = common.ErrorNotFound
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	outcome, err := f.accounts.DeleteAccount(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAuthenticationFailed, outcome)
}

func TestDeleteAccount_BeginFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.accounts.CreateAccount(ctx, "alice", "secret1")
	require.NoError(t, err)

	f.mock.ExpectBegin().WillReturnError(errBoom{})

	_, err = f.accounts.DeleteAccount(ctx, "alice", "secret1")
	require.ErrorContains(t, err, "error deleting account: boom")
	assert.Len(t, f.store.accounts, 1)
}

func TestDeleteAccount_MalformedDigest(t *testing.T) {
	f := newFixture(t)
	f.store.accounts[1] = &models.Account{ID: 1, Username: "legacy", PasswordHash: "plaintext"}

	_, err := f.accounts.DeleteAccount(context.Background(), "legacy", "plaintext")
	require.ErrorIs(t, err, common.ErrorMalformedDigest)
	assert.Len(t, f.store.accounts, 1)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "authentication_failed", OutcomeAuthenticationFailed.String())
	assert.Equal(t, "unknown", Outcome(0).String())
}
