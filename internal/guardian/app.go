// Package guardian wires the resource guardian: it loads the shared signing
// secret and serves protected HTTP and gRPC endpoints behind the gate.
package guardian

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/tokenbridge/internal/auth"
	"github.com/dmitrijs2005/tokenbridge/internal/guardian/config"
	"github.com/dmitrijs2005/tokenbridge/internal/guardian/gate"
	"github.com/dmitrijs2005/tokenbridge/internal/guardian/grpcserver"
	"github.com/dmitrijs2005/tokenbridge/internal/guardian/httpapi"
	"github.com/dmitrijs2005/tokenbridge/internal/httpx"
	"github.com/dmitrijs2005/tokenbridge/internal/logging"
	"github.com/dmitrijs2005/tokenbridge/internal/secretsource"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	handler http.Handler
	grpc    *grpcserver.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	spec := c.SecretSpec()
	secret, err := secretsource.Load(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("signing secret: %w", err)
	}
	logger.Info(ctx, "signing secret loaded", "source", spec.Describe(), "length", secret.Len())

	verifier, err := auth.NewTokenVerifier(secret)
	if err != nil {
		return nil, fmt.Errorf("token verifier: %w", err)
	}

	g := gate.NewGRPCGate(verifier, logger, gate.DefaultPublicMethods...)

	return &App{
		config:  c,
		logger:  logger,
		handler: httpapi.NewHandler(verifier, logger).Routes(),
		grpc:    grpcserver.NewGRPCServer(c.EndpointAddrGRPC, g, logger),
	}, nil
}

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

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives or
// either server fails; a failure of one stops the other.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting guardian...")
	app.initSignalHandler(cancelFunc)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpx.NewServer(app.config.EndpointAddrHTTP, app.handler, app.logger).Run(ctx)
	})
	g.Go(func() error {
		return app.grpc.Run(ctx)
	})

	err := g.Wait()
	app.logger.Info(ctx, "Guardian stopped")
	return err
}
