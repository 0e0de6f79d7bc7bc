package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dmitrijs2005/antirev/internal/client/client"
)

func (a *App) getStatus() string {
	if a.userName == "" {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// Root restores a stored session, checks the server and runs the REPL until
// the user exits or input ends.
func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to antirev CLI (type 'help' for commands)")

	userName, err := a.sessionService.Restore(ctx)
	if err != nil {
		log.Printf("Could not restore session: %s", err.Error())
	}
	a.userName = userName

	if err := a.sessionService.Ping(ctx); err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			log.Printf("Server %s is unavailable", a.config.ServerEndpointAddr)
		} else {
			log.Printf("Ping failed: %s", err.Error())
		}
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}
