package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	httpadapter "github.com/randomtoy/tarot-studio/internal/adapters/http"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(ctx, os.Stdout)
			if err != nil {
				return err
			}
			defer rt.close()
			logger := rt.logger

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true

			e.Use(httpadapter.RequestIDMiddleware())
			e.Use(httpadapter.LoggingMiddleware(logger))

			handler, err := httpadapter.NewHandler(httpadapter.Services{
				Catalog:  rt.catalog,
				Tarot:    rt.tarot,
				Drawing:  rt.drawing,
				Storage:  rt.storage,
				Settings: rt.settings,
			}, rt.cfg.History.MaxAgeDays)
			if err != nil {
				return err
			}
			handler.Register(e)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("starting server", "addr", rt.cfg.HTTP.Addr, "storage", rt.cfg.Storage.Driver)
				if err := e.Start(rt.cfg.HTTP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				logger.Error("shutdown error", "error", err)
			}
			return nil
		},
	}
}
