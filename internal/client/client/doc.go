// Package client contains the client-side building blocks of the antirev CLI.
//
// The package provides:
//  1. The Client interface the CLI services depend on.
//  2. GRPCClient, which talks to the Postboard service, attaches the session
//     token to every call and maps gRPC status codes to sentinel errors.
//  3. InitDatabase and RunMigrations, which open the local SQLite state
//     database and apply the embedded goose migrations.
//
// Match failures with errors.Is against ErrUnavailable, ErrUnauthorized,
// ErrAlreadyExists and ErrInvalidArgument.
package client
