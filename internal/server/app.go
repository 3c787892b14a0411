// Package server wires the SkillSwap engine: it opens PostgreSQL and applies
// migrations, connects the event publisher, builds the domain services and
// runs the gRPC and ops HTTP servers until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/skillswap/internal/logging"
	"github.com/dmitrijs2005/skillswap/internal/server/config"
	"github.com/dmitrijs2005/skillswap/internal/server/events"
	"github.com/dmitrijs2005/skillswap/internal/server/httpserver"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/skillswap/internal/server/services"
	"github.com/dmitrijs2005/skillswap/internal/server/tracing"

	gs "github.com/dmitrijs2005/skillswap/internal/server/grpc"
)

const serviceName = "skillswap"

var (
	openDB               = repomanager.OpenPostgres
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
	newPublisher         = func(url string, l logging.Logger) (events.Publisher, error) {
		return events.NewNatsPublisher(url, l)
	}
	setupTracing = tracing.Setup
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	publisher events.Publisher
	shutdown  tracing.ShutdownFunc
	services  gs.Services
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.NewJSONLogger(os.Stdout, serviceName, logging.ParseLevel(c.LogLevel))

	shutdown, err := setupTracing(ctx, serviceName, c.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("tracing init error: %w", err)
	}

	var db *sql.DB
	fail := func(err error) (*App, error) {
		if db != nil {
			db.Close()
		}
		if serr := shutdown(context.Background()); serr != nil {
			logger.Warn(ctx, "tracing shutdown failed", "error", serr)
		}
		return nil, err
	}

	db, err = openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return fail(fmt.Errorf("db init error: %w", err))
	}

	m, err := newRepositoryManager(db)
	if err != nil {
		return fail(fmt.Errorf("db init error: %w", err))
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		return fail(fmt.Errorf("migrations: %w", err))
	}

	var publisher events.Publisher = events.Nop{}
	if c.NATSURL != "" {
		publisher, err = newPublisher(c.NATSURL, logger)
		if err != nil {
			return fail(err)
		}
	}

	ledger := services.NewLedgerService(db, m, logger)
	wallets := services.NewWalletService(db, m, logger, c)

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		publisher: publisher,
		shutdown:  shutdown,
		services: gs.Services{
			Sessions:  services.NewSessionService(db, m, ledger, publisher, logger, c),
			Reviews:   services.NewReviewService(db, m, publisher, logger),
			Directory: services.NewDirectoryService(db, m, ledger, logger, c),
			Wallets:   wallets,
			Ledger:    ledger,
		},
	}, nil
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.services, app.config.SecretKey, app.config.RequestTimeout)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpserver.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.db)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails, then
// releases the publisher, the database and the tracer provider.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(context.Background())
}

func (app *App) close(ctx context.Context) {
	if err := app.publisher.Close(); err != nil {
		app.logger.Warn(ctx, "publisher close", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn(ctx, "db close", "error", err)
	}
	if err := app.shutdown(ctx); err != nil {
		app.logger.Warn(ctx, "tracing shutdown", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
