package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/talkincode/catalog/internal/app"
	"github.com/talkincode/catalog/internal/catalogapi"
	"github.com/talkincode/catalog/internal/webserver"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.Start(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Release()
	application.StartBackgroundJobs()

	server := webserver.NewServer(cfg, application)
	catalogapi.Register(server)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		return server.Gracefully(gctx, shutdownTimeout)
	})
	return g.Wait()
}
