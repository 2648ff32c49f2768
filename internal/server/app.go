// Package server wires storage, services and transports into the ImuneTrack
// process and runs it until SIGINT or SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/logging"
	"github.com/dmitrijs2005/imunetrack/internal/server/config"
	"github.com/dmitrijs2005/imunetrack/internal/server/httpapi"
	"github.com/dmitrijs2005/imunetrack/internal/server/notify"
	"github.com/dmitrijs2005/imunetrack/internal/server/services"

	gs "github.com/dmitrijs2005/imunetrack/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	conn       dbx.Conn
	dispatcher *notify.Dispatcher
	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
}

func newNotifier(c *config.Config, logger logging.Logger) notify.Notifier {
	if c.SMTPHost == "" {
		logger.Warn(context.Background(), "EMAIL_HOST not set, dose confirmations are disabled")
		return notify.NopNotifier{}
	}
	return notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		User:     c.SMTPUser,
		Password: c.SMTPPassword,
		From:     c.EmailFrom,
	})
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	conn, rm, err := OpenStorage(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	dispatcher := notify.NewDispatcher(newNotifier(c, logger), logger.With("module", "notify"), c.NotificationTimeout)

	us := services.NewUserService(conn, rm, c, logger)
	vs := services.NewVaccineService(conn, rm, logger)
	hs := services.NewHistoryService(conn, rm, dispatcher, logger)

	h := httpapi.NewHandler(us, vs, hs, conn, logger)
	router := httpapi.NewRouter(h, httpapi.NewMetrics(), c.CORSAllowedOrigins, logger)

	app := &App{
		config:     c,
		logger:     logger,
		conn:       conn,
		dispatcher: dispatcher,
		httpServer: httpapi.NewServer(c.EndpointAddrHTTP, router, c.ShutdownTimeout, logger),
	}
	if c.EndpointAddrGRPC != "" {
		app.grpcServer = gs.NewGRPCServer(c.EndpointAddrGRPC, logger)
	}
	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled, a signal arrives or a server fails.
// It then drains HTTP, stops gRPC, waits for pending e-mails and closes
// storage.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)
	fail := func(err error) {
		mu.Lock()
		failures = append(failures, err)
		mu.Unlock()
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			fail(fmt.Errorf("http server: %w", err))
		}
	}()

	if app.grpcServer != nil {
		app.grpcServer.SetServing(true)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.grpcServer.Run(ctx); err != nil {
				fail(fmt.Errorf("grpc server: %w", err))
			}
		}()
	}

	wg.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout)
	defer cancel()
	if err := app.dispatcher.Wait(shutdownCtx); err != nil {
		app.logger.Warn(ctx, "pending dose confirmations abandoned", "error", err)
	}

	if err := app.conn.Close(); err != nil {
		failures = append(failures, fmt.Errorf("close storage: %w", err))
	}

	app.logger.Info(ctx, "App stopped")
	return errors.Join(failures...)
}
