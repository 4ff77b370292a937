// Terminal participant for exercising a lobbywire server: host a room or join
// one by code, watch the roster fill, and wait for the ready signal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lobbywire/lobbywire/internal/client"
	"github.com/lobbywire/lobbywire/internal/domain"
	"github.com/lobbywire/lobbywire/internal/version"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newCmd() *cobra.Command {
	var (
		url  string
		room string
		name string
	)

	cmd := &cobra.Command{
		Use:           "lobbycli",
		Short:         "Join or host a lobbywire room from the terminal.",
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			return run(cmd.Context(), url, room, name)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&url, "url", "ws://localhost:8080/api/ws", "websocket endpoint of the server")
	fs.StringVar(&room, "room", "", "room code to join; omit to host a new room")
	fs.StringVar(&name, "name", "", "your display name")

	return cmd
}

func run(ctx context.Context, url, room, name string) error {
	conn, err := client.Dial(ctx, url)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	cb := client.Callbacks{
		PlayerJoined: func(id domain.PlayerID, playerName string) {
			fmt.Printf("player %d joined: %s\n", id, playerName)
		},
		Ready: func(_ *client.Conn, roster []string, self domain.PlayerID) {
			fmt.Printf("session ready, you are player %d:\n", self)
			for i, n := range roster {
				fmt.Printf("  %d: %s\n", i, n)
			}
			close(done)
		},
	}

	if room == "" {
		roomID, start, err := conn.Host(ctx, name, cb)
		if err != nil {
			return err
		}
		fmt.Printf("room code: %s\n", roomID)
		fmt.Println("press Enter when everyone has joined")
		go func() {
			if _, err := bufio.NewReader(os.Stdin).ReadString('\n'); err != nil {
				return
			}
			if err := start(); err != nil {
				log.Error().Err(err).Msg("all-joined send failed")
			}
		}()
	} else {
		playerID, roster, err := conn.Join(ctx, domain.RoomID(room), name, cb)
		if err != nil {
			return err
		}
		fmt.Printf("joined %s as player %d, roster so far:\n", room, playerID)
		roster.Each(func(id domain.PlayerID, n string) {
			fmt.Printf("  %d: %s\n", id, n)
		})
	}

	select {
	case <-done:
	case <-ctx.Done():
	}
	return nil
}
