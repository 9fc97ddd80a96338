package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todolist/config"
	"todolist/config/database"
	"todolist/internal/schema"
	"todolist/pkg/logger"
	"todolist/router"
	"todolist/socket"

	"go.uber.org/multierr"
)

func main() {
	// 1. Load configuration once; everything below receives it explicitly.
	cfg, envLoaded, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.LogLevel)
	defer logger.Sync()
	if !envLoaded {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}

	// 2. Open the pool. If the database never answers we only give up when
	// the schema has to be bootstrapped; otherwise /health reports the outage.
	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DB)
	if db == nil {
		logger.Sugar.Fatalf("Failed to open database pool: %v", err)
	}
	if err != nil {
		if cfg.Bootstrap {
			logger.Sugar.Fatalf("Database unavailable, cannot bootstrap schema: %v", err)
		}
		logger.Sugar.Errorf("Starting without a reachable database: %v", err)
	}

	// 3. Bootstrap must finish before the listener accepts traffic.
	if cfg.Bootstrap {
		bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err := schema.Bootstrap(bootCtx, db, schema.DefaultSeeds)
		cancel()
		if err != nil {
			db.Close()
			logger.Sugar.Fatalf("Schema bootstrap failed: %v", err)
		}
		logger.Sugar.Info("Schema bootstrap complete")
	}

	// 4. The hub pushes item changes to open pages.
	hubCtx, stopHub := context.WithCancel(ctx)
	hub := socket.NewHub()
	go hub.Run(hubCtx)

	handler, err := router.Setup(router.Deps{DB: db, Hub: hub, Now: time.Now})
	if err != nil {
		logger.Sugar.Fatalf("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Sugar.Infof("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// 5. Serve until interrupted.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Sugar.Infof("Received %s. Shutting down gracefully...", sig)
	case err := <-serveErr:
		logger.Sugar.Errorf("Server error: %v", err)
	}

	if err := shutdown(srv, hub, stopHub, db, cfg.ShutdownTimeout); err != nil {
		logger.Sugar.Errorf("Shutdown finished with errors: %v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sugar.Info("Server stopped")
}

// shutdown stops accepting requests, stops the hub and then closes the pool.
func shutdown(srv *http.Server, hub *socket.Hub, stopHub context.CancelFunc, db interface{ Close() error }, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var err error
	err = multierr.Append(err, srv.Shutdown(ctx))

	stopHub()
	select {
	case <-hub.Done():
	case <-ctx.Done():
		err = multierr.Append(err, errors.New("hub did not stop before the shutdown timeout"))
	}

	err = multierr.Append(err, db.Close())
	return err
}
