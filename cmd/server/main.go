package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	router "github.com/lobbywire/lobbywire/internal/adapters/http"
	wsignal "github.com/lobbywire/lobbywire/internal/adapters/signal"
	"github.com/lobbywire/lobbywire/internal/config"
	"github.com/lobbywire/lobbywire/internal/core"
	"github.com/lobbywire/lobbywire/internal/version"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCmd().ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func newCmd() *cobra.Command {
	var (
		port           int
		capacity       int
		sessionTimeout time.Duration
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:           "lobbywire",
		Short:         "Pre-game lobby coordinator: rooms, join codes, and a synchronized start.",
		Args:          cobra.ExactArgs(0),
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("capacity") {
				cfg.Capacity = capacity
			}
			if cmd.Flags().Changed("session-timeout") {
				cfg.SessionTimeout = sessionTimeout
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&port, "port", "p", 8080, "port to listen on (env: LOBBYWIRE_PORT)")
	fs.IntVar(&capacity, "capacity", 8, "maximum players per room (env: LOBBYWIRE_CAPACITY)")
	fs.DurationVar(&sessionTimeout, "session-timeout", 60*time.Minute, "time before idle rooms are evicted, 0 to disable (env: LOBBYWIRE_SESSION_TIMEOUT)")
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.SetVersionTemplate("lobbywire v{{.Version}}\n")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	registry := core.NewRegistry(cfg.Capacity, nil)
	rt := wsignal.NewRouter(registry, core.NopStarter{})
	rt.IdleTimeout = cfg.SessionTimeout
	rt.ReadLimit = cfg.ReadLimit
	go rt.Run(ctx)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router.SetupRouter(ctx, cfg, rt),
	}

	go func() {
		log.Info().Str("addr", addr).Int("capacity", cfg.Capacity).Msg("lobbywire server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited gracefully")
	return nil
}
