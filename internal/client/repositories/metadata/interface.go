// Package metadata stores small key/value pairs of client state in SQLite.
// The session token issued at login lives here between CLI runs.
package metadata

import (
	"context"
)

// KeySessionToken is the key under which the current session token is kept.
const KeySessionToken = "session_token"

// Repository is a key/value store. Get returns (nil, nil) for missing keys.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
