package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chatty-orange/server/internal/api"
	"github.com/chatty-orange/server/internal/assistant/repo"
	logx "github.com/chatty-orange/server/pkg/logger"
)

const sweepInterval = time.Minute

var seedOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assistant HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(envFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if seedOnStart {
			if err := repo.Seed(ctx, a.store, time.Now()); err != nil {
				return err
			}
		}

		srv := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      api.NewRouter(api.NewChatHandler(a.service), a.registry),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			BaseContext: func(_ net.Listener) context.Context {
				return ctx
			},
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logx.Info().Str("addr", srv.Addr).Str("env", cfg.Env.String()).Msg("assistant listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if n := a.memory.Sweep(); n > 0 {
						logx.Debug().Int("removed", n).Msg("swept expired rate windows")
					}
				}
			}
		})
		g.Go(func() error {
			<-gctx.Done()
			logx.Info().Msg("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().BoolVar(&seedOnStart, "seed", false, "load demo content before serving")
}
