// Package issuer wires the identity authority: it loads the signing secret,
// opens and migrates the user store, seeds users and serves the HTTP API.
package issuer

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/tokenbridge/internal/auth"
	"github.com/dmitrijs2005/tokenbridge/internal/cryptox"
	"github.com/dmitrijs2005/tokenbridge/internal/httpx"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/bootstrap"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/config"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/httpapi"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/repositories/repomanager"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/services"
	"github.com/dmitrijs2005/tokenbridge/internal/logging"
	"github.com/dmitrijs2005/tokenbridge/internal/secretsource"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

// NewApp performs every startup step that can fail. Any error here is
// fatal: the issuer must not serve without a valid secret and a migrated
// store.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	spec := c.SecretSpec()
	secret, err := secretsource.Load(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("signing secret: %w", err)
	}
	logger.Info(ctx, "signing secret loaded", "source", spec.Describe(), "length", secret.Len())

	db, m, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher := cryptox.NewArgon2Hasher(cryptox.DefaultParams, c.MaxConcurrentHashes)
	us := services.NewUserService(db, m, hasher)

	if err := bootstrap.Run(ctx, us, c.SeedUsers, logger.With("module", "bootstrap")); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	tokens, err := auth.NewTokenIssuer(secret, auth.WithTTL(c.TokenValidityDuration))
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	h := httpapi.NewHandler(us, tokens, logger)

	return &App{config: c, logger: logger, db: db, handler: h.Routes()}, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

// Handler exposes the routed API, mostly for tests.
func (app *App) Handler() http.Handler {
	return app.handler
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting issuer...")
	app.initSignalHandler(cancelFunc)

	err := httpx.NewServer(app.config.EndpointAddrHTTP, app.handler, app.logger).Run(ctx)

	closeDB(app.db)
	app.logger.Info(ctx, "Issuer stopped")
	return err
}
