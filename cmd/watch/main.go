package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	pkglog "watchparty/internal/log"
)

// A small participant-side client: it follows one room's event stream and
// prints what a viewer would see.

func main() {
	var (
		server string
		token  string
		debug  bool
	)

	cmd := &cobra.Command{
		Use:   "watch <room-id>",
		Short: "Follow a watch-party room",
		Long:  `watch opens a room's event stream, prints every event and applies playback directives to a local player.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := "info"
			if debug {
				level = "debug"
			}
			pkglog.Init(pkglog.Config{Level: level, Pretty: true, ServiceName: "watch"})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, server, args[0], token, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&server, "server", "s", "http://localhost:8080", "watch-party server base URL")
	cmd.Flags().StringVarP(&token, "token", "t", "", "bearer token, sent as the token query parameter")
	cmd.Flags().BoolVar(&debug, "debug", false, "log keep-alives and decoder detail")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, server, roomID, token string, out io.Writer) error {
	u, err := url.Parse(strings.TrimRight(server, "/") + "/api/rooms/" + url.PathEscape(roomID) + "/events")
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("open stream: unexpected status %s", resp.Status)
	}

	err = newWatcher(out).follow(resp.Body)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
