package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/antirev/internal/client/client"
	"github.com/dmitrijs2005/antirev/internal/client/services"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Post(ctx context.Context) error
	List(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or on "exit" / "quit". Handler errors are reported
// and the loop continues.
//
//	Always:
//	  - help            show available commands
//	  - signup          create an account
//	  - login           authenticate and remember the session
//	  - (l)ist          list all posts
//	  - delete-account  delete an account and its posts
//	  - exit | quit     leave the program
//
//	Logged in:
//	  - whoami          show the current account
//	  - post            publish a post
//	  - logout          forget the local session
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("antirev %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, post, (l)ist, logout, delete-account, exit")
			} else {
				printlnFn("Available commands: signup, login, (l)ist, delete-account, exit")
			}

		case "signup":
			cmdErr = a.Signup(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = requireLogin(ctx, a, a.Logout)

		case "whoami":
			cmdErr = requireLogin(ctx, a, a.WhoAmI)

		case "post":
			cmdErr = requireLogin(ctx, a, a.Post)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "delete-account":
			cmdErr = a.DeleteAccount(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describeError(cmdErr))
		}

		if err != nil {
			return
		}
	}
}

func requireLogin(ctx context.Context, a execIface, fn func(context.Context) error) error {
	if !a.isLoggedIn() {
		return services.ErrNotLoggedIn
	}
	return fn(ctx)
}

func describeError(err error) string {
	switch {
	case errors.Is(err, services.ErrNotLoggedIn):
		return "not logged in, use 'login' first"
	case errors.Is(err, client.ErrUnauthorized):
		return "not authorized"
	case errors.Is(err, client.ErrAlreadyExists):
		return "username is already taken"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	default:
		return err.Error()
	}
}
