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

	"github.com/clowes/twin/internal/config"
	"github.com/clowes/twin/internal/handlers"
	"github.com/clowes/twin/internal/logger"
	"github.com/clowes/twin/internal/services"
	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the twin chat service the widget talks to",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.SetConsoleOutput(os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := services.InitializeServices(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			if port == 0 {
				port = config.GetTwinConfig().Port
			}
			return serve(ctx, fmt.Sprintf(":%d", port), setupRouter(svc))
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (default $PORT or 8000)")
	return cmd
}

func setupRouter(svc *services.Services) *mux.Router {
	r := mux.NewRouter()
	handlers.RegisterRoutes(r, svc)
	return r
}

func serve(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(logger.APP, "Server starting on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ListenAndServe error: %w", err)
	case <-ctx.Done():
	}

	logger.Info(logger.APP, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
