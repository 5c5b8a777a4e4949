// Package server initializes and runs the users API process.
// It opens and migrates the database, builds the services and serves them
// over HTTP, with a gRPC health endpoint alongside, until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/usersapi/internal/filex"
	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/server/auth"
	"github.com/dmitrijs2005/usersapi/internal/server/config"
	"github.com/dmitrijs2005/usersapi/internal/server/httpapi"
	"github.com/dmitrijs2005/usersapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usersapi/internal/server/services"

	gs "github.com/dmitrijs2005/usersapi/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	deps   httpapi.Deps
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	if repomanager.DialectFromDSN(c.DatabaseDSN) == repomanager.DialectSQLite {
		if path := repomanager.SQLiteFilePath(c.DatabaseDSN); path != "" {
			if _, err := filex.EnsureParentDir(path); err != nil {
				return nil, fmt.Errorf("data dir: %w", err)
			}
		}
	}

	db, dialect, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	issuer := auth.NewIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration)

	us, err := services.NewUserService(db, rm, auth.NewHasher(c.BcryptCost), issuer, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	deps := httpapi.Deps{
		Users:         us,
		Admin:         services.NewAdminService(db, rm, logger),
		Files:         services.NewFileService(c, logger),
		Tokens:        issuer,
		Health:        db.PingContext,
		Log:           logger,
		MaxUploadSize: c.MaxUploadSize,
	}

	logger.Info(ctx, "database ready", "dialect", string(dialect))

	return &App{config: c, logger: logger, db: db, deps: deps}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, httpapi.NewRouter(app.deps), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db.PingContext, gs.DefaultProbeInterval)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a signal arrives, ctx is canceled or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
