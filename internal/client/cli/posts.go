package cli

import (
	"context"
	"fmt"
	"strings"
)

// Post prompts for a title, a type and the content, then publishes the post.
// Text posts accept several lines of content.
func (a *App) Post(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}

	postType, err := getSimpleText(a.reader, "Enter type (url or text)", a.out)
	if err != nil {
		return err
	}

	var content string
	if strings.EqualFold(strings.TrimSpace(postType), "text") {
		content, err = getMultiline(a.reader, "Enter text", a.out)
	} else {
		content, err = getSimpleText(a.reader, "Enter URL", a.out)
	}
	if err != nil {
		return err
	}

	p, err := a.postService.Create(ctx, title, postType, content)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Post #%d published\n", p.ID)
	return nil
}

func (a *App) List(ctx context.Context) error {
	posts, err := a.postService.List(ctx)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet")
		return nil
	}

	for _, p := range posts {
		fmt.Fprintln(a.out, p)
	}
	return nil
}
