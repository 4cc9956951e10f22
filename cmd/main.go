package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/always-on/config"
	"github.com/angeloszaimis/always-on/internal/httpserver"
	"github.com/angeloszaimis/always-on/internal/liveness"
	"github.com/angeloszaimis/always-on/internal/pinger"
	"github.com/angeloszaimis/always-on/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Always On server failed", slog.Any("err", err))
		cancel()
		os.Exit(1)
	}
}

// run binds the liveness server, starts the pinger and blocks until ctx is
// cancelled or the server fails. A bind failure is returned before the
// pinger starts.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	livenessHandler := liveness.NewHandler(log)

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(livenessHandler))
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	if err := srv.Listen(); err != nil {
		return err
	}

	log.Info("Always On server listening",
		slog.String("url", fmt.Sprintf("http://localhost:%d", srv.Port())))
	log.Info("Set up UptimeRobot to ping this URL to keep your bot alive!")

	p := pinger.New(cfg.Ping.URL, cfg.PingInterval(), cfg.PingTimeout(), log)

	pingerDone := make(chan struct{})
	go func() {
		defer close(pingerDone)
		p.Run(ctx)
	}()

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Serve()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
		<-pingerDone
		return nil
	case err := <-srvErrCh:
		return err
	}
}
