package models

import (
	"fmt"
	"strings"
	"time"
)

// PostType is the kind of content a post carries.
type PostType string

const (
	PostTypeURL  PostType = "url"
	PostTypeText PostType = "text"
)

// ParsePostType accepts "url" or "text" in any letter case.
func ParsePostType(s string) (PostType, error) {
	switch t := PostType(strings.ToLower(strings.TrimSpace(s))); t {
	case PostTypeURL, PostTypeText:
		return t, nil
	default:
		return "", fmt.Errorf("unknown post type %q", s)
	}
}

func (t PostType) Valid() bool {
	return t == PostTypeURL || t == PostTypeText
}

type Post struct {
	ID        int64     `db:"id"`
	OwnerID   int64     `db:"owner_id"`
	Title     string    `db:"title"`
	Type      PostType  `db:"post_type"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
