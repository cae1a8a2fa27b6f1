package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
	"github.com/vedran77/pulse-channels/internal/bootstrap"
	"github.com/vedran77/pulse-channels/internal/config"
	"github.com/vedran77/pulse-channels/internal/keys"
	"github.com/vedran77/pulse-channels/internal/service"
	"github.com/vedran77/pulse-channels/internal/transport/http/handlers"
	"github.com/vedran77/pulse-channels/internal/transport/http/middleware"
	"github.com/vedran77/pulse-channels/internal/transport/ws"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	backend, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		log.Info("Closing store...")
		_ = backend.Store.Close()
	}()

	// Services
	channelService := service.NewChannelService(
		backend.Store, backend.Store, keys.NewKeyManager(), keys.NewEncryptor(), log, cfg.WrapConcurrency,
	)
	userService := service.NewUserService(backend.Store, log)
	fanout := service.NewChangeStreamFanout(
		backend.Store, service.NewMembershipAuthorizer(backend.Store), log, cfg.AuthzCacheTTL,
	)

	// WebSocket hub
	hub := ws.NewHub(fanout, log)
	channelService.SetNotifier(ws.NewHubNotifier(hub, log))

	// Routes
	mux := http.NewServeMux()
	handlers.Routes(mux, middleware.Auth(cfg.JWTSecret), handlers.Handlers{
		Channels: handlers.NewChannelHandler(channelService, log),
		DMs:      handlers.NewDMHandler(channelService, log),
		Users:    handlers.NewUserHandler(userService, log),
	})
	mux.Handle("GET /ws", ws.ServeWS(hub, cfg.JWTSecret, log))

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: middleware.CORS(mux),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	if backend.Run != nil {
		g.Go(func() error { return backend.Run(gctx) })
	}
	g.Go(func() error {
		log.Info("Starting server", "addr", server.Addr, "store", cfg.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Program stopped cleanly")
	return nil
}
