// Package cli provides the interactive antirev command-line client.
//
// It wires configuration, local state and the API services into a REPL.
// A session token stored by a previous run is picked up at start, so a user
// stays logged in until they log out or log in again elsewhere.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
