package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"watchparty/internal/app"
	"watchparty/internal/config"
	"watchparty/internal/hub"
	pkglog "watchparty/internal/log"
	"watchparty/internal/service"
	"watchparty/internal/transport/rest"
)

func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := pkglog.L()
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	pkglog.Init(pkglog.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "watchparty"})
	l := pkglog.L()

	ctx := context.Background()
	a, err := app.Open(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to open storage")
	}
	defer a.Close(context.Background())

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		l.Warn().Msg("JWT_SECRET not set, using the development default")
	}

	eventHub := hub.New(
		hub.WithKeepAlive(cfg.Stream.KeepAlive),
		hub.WithQueueSize(cfg.Stream.QueueSize),
		hub.WithLogger(l),
	)

	authSvc := service.NewAuthService(a.Store.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	roomSvc := service.NewRoomService(a.Store, a.Playback)
	chatSvc := service.NewChatService(a.Store)
	reactionSvc := service.NewReactionService(a.Store)
	playbackSvc := service.NewPlaybackService(a.Store.Rooms, a.Playback)

	// hub implements service.Broadcaster
	roomSvc.SetBroadcaster(eventHub)
	chatSvc.SetBroadcaster(eventHub)
	reactionSvc.SetBroadcaster(eventHub)
	playbackSvc.SetBroadcaster(eventHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:     authSvc,
		RoomService:     roomSvc,
		ChatService:     chatSvc,
		ReactionService: reactionSvc,
		PlaybackService: playbackSvc,
		Hub:             eventHub,
		Logger:          l,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		l.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.Store.Driver).
			Str("cache", cfg.Cache.Driver).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info().Msg("shutting down server")

	// Streams never finish on their own, so end them before draining HTTP.
	eventHub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
	}

	l.Info().Msg("server exited")
}
