// Package serve runs the HTTP API
package serve

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/api"
	"fjacquet/statement-import/internal/logging"

	"github.com/spf13/cobra"
)

var (
	addr            string
	shutdownTimeout time.Duration
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the statement import HTTP API",
	Long: `Serve the HTTP API used by the web and chat front ends: statement detection,
import and single-description categorization.`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default server.addr)")
	Cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Grace period for in-flight requests")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	imp, err := c.GetImporter()
	if err != nil {
		return err
	}

	cfg := c.GetConfig()
	listen := addr
	if listen == "" {
		listen = cfg.Server.Addr
	}

	srv := api.NewServer(api.Config{
		Service:     imp,
		Categorizer: c.GetCategorizer(),
		Extractor:   c.GetExtractor(),
		Logger:      root.Log,
		MaxUploadMB: cfg.Server.MaxUploadMB,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return run(ctx, srv, listen, shutdownTimeout, root.Log)
}

// run serves until ctx is cancelled or the listener fails.
func run(ctx context.Context, srv *api.Server, listen string, grace time.Duration, logger logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP API")
	if err := srv.Shutdown(grace); err != nil {
		return err
	}
	return <-errCh
}
