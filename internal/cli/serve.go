package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"eino_grocery_bot/internal/server"
	"eino_grocery_bot/src/logger"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		addr := app.Config.ServerConfig.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := &http.Server{
			Addr: addr,
			Handler: server.NewRouter(server.Deps{
				Chat:     app.Processor,
				History:  app.History,
				Gatherer: app.Registry,
			}, app.Config.ServerConfig.RequestTimeout),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", addr).Msg("🚀 Chat API listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		logger.Info().Msg("Shutting down chat API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides HTTP_ADDR")
}
