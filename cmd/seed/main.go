package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"watchparty/internal/app"
	"watchparty/internal/config"
	pkglog "watchparty/internal/log"
	"watchparty/internal/model"
	"watchparty/internal/service"
)

func main() {
	configPath := flag.String("config", "", "directory containing config.yaml")
	username := flag.String("username", "demo-host", "demo host username")
	phone := flag.String("phone", "0900000000", "demo host phone")
	password := flag.String("password", "demo-password", "demo host password")
	title := flag.String("title", "Big Buck Bunny", "demo room movie title")
	movieURL := flag.String("url", "https://download.blender.org/peach/bigbuckbunny_movies/big_buck_bunny_480p_h264.mov", "demo room movie URL")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := pkglog.L()
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	pkglog.Init(pkglog.Config{Level: cfg.Log.Level, Pretty: true, ServiceName: "seed"})
	l := pkglog.L()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to open storage")
	}
	defer a.Close(context.Background())

	authSvc := service.NewAuthService(a.Store.Users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	roomSvc := service.NewRoomService(a.Store, a.Playback)

	resp, err := authSvc.Register(ctx, model.RegisterRequest{Username: *username, Phone: *phone, Password: *password})
	if errors.Is(err, service.ErrConflict) {
		resp, err = authSvc.Login(ctx, model.LoginRequest{Username: *username, Password: *password})
	}
	if err != nil {
		l.Fatal().Err(err).Str(pkglog.FieldUsername, *username).Msg("failed to create demo host")
	}

	who := model.Identity{UserID: resp.User.ID, Username: resp.User.Username}
	room, err := roomSvc.CreateRoom(ctx, who, model.CreateRoomRequest{MovieTitle: *title, MovieURL: *movieURL})
	if err != nil {
		l.Fatal().Err(err).Msg("failed to create demo room")
	}
	if _, err := roomSvc.Join(ctx, room.ID, who); err != nil {
		l.Fatal().Err(err).Str(pkglog.FieldRoomID, room.ID).Msg("failed to join demo room")
	}

	if cfg.Store.Driver == "memory" {
		l.Warn().Msg("memory datastore selected; the seeded data disappears when this process exits")
	}

	fmt.Fprintf(os.Stdout, "room:  %s\nhost:  %s (%s)\ntoken: %s\n", room.ID, who.Username, who.UserID, resp.Token)
}
