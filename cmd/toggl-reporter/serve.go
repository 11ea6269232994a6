package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"toggl-reporter/internal/app"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve /healthz, /sync and /report over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.HTTP.Addr
			}
			return runServe(cmd.Context(), c, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default HTTP_ADDR or :8080)")
	return cmd
}

func runServe(ctx context.Context, c *cli, addr string) error {
	application, err := app.New(ctx, c.log, c.cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	srv := application.HTTPServer(addr)
	errCh := make(chan error, 1)
	go func() {
		c.log.Info("http server listening", slog.String("addr", addr))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c.log.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}
