package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/bjaus/gridconv/internal/server"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// serve runs until ctx is cancelled, then drains in-flight requests for up
// to the configured shutdown timeout.
func (a *app) serve(ctx context.Context) error {
	tables, s, err := a.openTables(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	sc := a.cfg.Server
	srv := server.New(ctx, server.Options{
		Addr:           sc.Addr,
		ReadTimeout:    sc.ReadTimeout.Duration,
		WriteTimeout:   sc.WriteTimeout.Duration,
		RequestTimeout: sc.RequestTimeout.Duration,
		RateLimit:      sc.RateLimit,
		RateBurst:      sc.RateBurst,
		MaxBodyBytes:   sc.MaxBodyBytes,
		HistoryLimit:   a.cfg.History.Limit,
	}, a.log.Named("http"), tables)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
