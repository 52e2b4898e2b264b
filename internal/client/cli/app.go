// Package cli is the interactive townsquare shell. It owns the wiring of
// the backend services, the in-process client, the session layer and the
// cached list controllers, and exposes them through a small REPL.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/smirnovds/townsquare/internal/client/backend"
	clientconfig "github.com/smirnovds/townsquare/internal/client/config"
	eventsrepo "github.com/smirnovds/townsquare/internal/client/repositories/events"
	newsrepo "github.com/smirnovds/townsquare/internal/client/repositories/news"
	"github.com/smirnovds/townsquare/internal/client/secrets"
	"github.com/smirnovds/townsquare/internal/client/session"
	"github.com/smirnovds/townsquare/internal/client/state"
	"github.com/smirnovds/townsquare/internal/logging"
	"github.com/smirnovds/townsquare/internal/model"
	serverconfig "github.com/smirnovds/townsquare/internal/server/config"
	"github.com/smirnovds/townsquare/internal/server/repositories/repomanager"
	"github.com/smirnovds/townsquare/internal/server/services"
	"github.com/smirnovds/townsquare/internal/server/storage"

	_ "modernc.org/sqlite"
)

// listPageSize caps how many rows a list command pulls per fetch.
const listPageSize = 50

type App struct {
	logger    logging.Logger
	manager   *session.Manager
	guard     *session.Guard
	news      *newsrepo.Repository
	events    *eventsrepo.Repository
	newsCtl   *state.Controller[model.News]
	eventsCtl *state.Controller[model.Event]

	serverDB  *sql.DB
	secretsDB *sql.DB
	reader    *bufio.Reader
}

// NewApp connects to the backend database, runs migrations, builds the
// services and the in-process client, opens the local secrets store and
// assembles the session layer on top.
func NewApp(ctx context.Context, srvCfg *serverconfig.Config, cliCfg *clientconfig.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	db, err := repomanager.Open(ctx, srvCfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	gateway, err := storage.NewGateway(srvCfg, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("storage gateway: %w", err)
	}

	auth := services.NewAuthService(db, rm, srvCfg)
	content := services.NewContentService(db, rm)
	media := services.NewMediaService(db, rm, gateway)
	client := backend.NewInProcess(auth, content, media)

	secretsDB, err := secrets.InitDatabase(ctx, cliCfg.SecretsPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("secrets store: %w", err)
	}
	store := secrets.NewSQLiteRepository(secretsDB)

	manager := session.NewManager(client, store, logger)
	guard := session.NewGuard(manager, logger, func(msg string) {
		fmt.Println(msg)
	})

	newsRepo := newsrepo.NewRepository(client, manager, logger)
	eventsRepo := eventsrepo.NewRepository(client, manager, logger)

	app := &App{
		logger:    logger,
		manager:   manager,
		guard:     guard,
		news:      newsRepo,
		events:    eventsRepo,
		serverDB:  db,
		secretsDB: secretsDB,
		reader:    bufio.NewReader(os.Stdin),
	}
	app.newsCtl = state.NewController(func(ctx context.Context) ([]model.News, error) {
		return newsRepo.List(ctx, listPageSize, 0)
	})
	app.eventsCtl = state.NewController(func(ctx context.Context) ([]model.Event, error) {
		return eventsRepo.ListUpcoming(ctx, listPageSize)
	})

	// A restored token pair alone does not make the shell "signed in":
	// the profile is loaded eagerly so the prompt and command set reflect
	// the session from the first line.
	if restored, err := manager.Restore(ctx); err != nil {
		logger.Warn(ctx, "could not restore previous session", "error", err)
	} else if restored {
		if identity, err := manager.GetCurrentIdentity(ctx); err != nil || identity == nil {
			logger.Warn(ctx, "restored session but could not load profile", "error", err)
		} else {
			fmt.Printf("Welcome back, %s!\n", identity.Name)
		}
	}

	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.manager.CurrentIdentity() != nil
}

func (a *App) status() string {
	id := a.manager.CurrentIdentity()
	if id == nil {
		return "signed out"
	}
	if id.IsAdmin() {
		return id.Email + " (admin)"
	}
	return id.Email
}

// Run drives the REPL until EOF or exit.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) Close() {
	if a.secretsDB != nil {
		a.secretsDB.Close()
	}
	if a.serverDB != nil {
		a.serverDB.Close()
	}
}

// guarded funnels a command through the session guard so that an expired
// session purges local state and tells the user exactly once.
func (a *App) guarded(ctx context.Context, op func(ctx context.Context) error) error {
	expired, err := a.guard.RunGuarded(ctx, op)
	if expired {
		return nil
	}
	return err
}
