package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/b3data/ettj/internal/api"
	"github.com/b3data/ettj/internal/api/handlers"
)

// serveCmd starts the HTTP API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the curve API server",
	Long: `Starts the HTTP API serving stored term structures.

Endpoints:
  GET /health
  GET /api/curve?product=DI1&date=2024-01-02

Example:
  go run ./cmd/ettj serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	curveHandler := handlers.NewCurveHandler(a.settlementRepo(), a.log)
	router := api.NewRouter(curveHandler, a.log)
	server := api.New(a.cfg, a.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		a.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
