package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/antirev/internal/client/client"
	"github.com/dmitrijs2005/antirev/internal/common"
)

// getSimpleText, getPassword and getMultiline point to the interactive input
// helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Signup prompts for a username and password and creates an account.
// The password is wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	acc, err := a.sessionService.Signup(ctx, userName, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account %q created (id %d). Use 'login' to start a session.\n", acc.Username, acc.ID)
	return nil
}

// Login prompts for credentials and starts a session. Rejected credentials
// are reported without touching the current session.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.sessionService.Login(ctx, userName, password); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Login failed: invalid username or password")
			return nil
		}
		return err
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout forgets the local session token.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sessionService.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	acc, err := a.sessionService.WhoAmI(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (id %d)\n", acc.Username, acc.ID)
	return nil
}

// DeleteAccount asks for the credentials of the account to delete. When the
// deleted account is the current one the session ends as well.
func (a *App) DeleteAccount(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username of the account to delete", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	deleted, err := a.sessionService.DeleteAccount(ctx, userName, password)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(a.out, "Account not deleted: invalid username or password")
		return nil
	}

	if userName == a.userName {
		a.userName = ""
	}
	fmt.Fprintf(a.out, "Account %q and its posts were deleted\n", userName)
	return nil
}
