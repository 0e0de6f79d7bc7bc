package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/antirev/internal/client/client"
	"github.com/dmitrijs2005/antirev/internal/client/config"
	"github.com/dmitrijs2005/antirev/internal/client/services"
	"github.com/dmitrijs2005/antirev/internal/filex"
)

type App struct {
	config         *config.Config
	db             *sql.DB
	sessionService services.SessionService
	postService    services.PostService
	userName       string
	reader         *bufio.Reader
	out            io.Writer
}

// NewApp opens local state at c.StatePath and connects to the server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	statePath, err := filex.EnsureParentDir(c.StatePath)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, statePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewPostboardClientService(c.ServerEndpointAddr, c.CallTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ss := services.NewSessionService(apiClient, db)
	ps := services.NewPostService(apiClient)

	return &App{
		config:         c,
		db:             db,
		sessionService: ss,
		postService:    ps,
		reader:         bufio.NewReader(os.Stdin),
		out:            os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	defer a.sessionService.Close(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}
