// Package models defines client-side views of server objects.
package models

import (
	"fmt"
	"time"
)

// Account is the public part of a server account.
type Account struct {
	ID       int64
	Username string
}

// Post is a post as listed by the server.
type Post struct {
	ID        int64
	OwnerID   int64
	Title     string
	Type      string
	Content   string
	CreatedAt time.Time
}

// String renders a post as a single line for the REPL.
func (p Post) String() string {
	return fmt.Sprintf("#%d [%s] %s: %s (owner %d, %s)",
		p.ID, p.Type, p.Title, p.Content, p.OwnerID, p.CreatedAt.Local().Format(time.DateTime))
}
