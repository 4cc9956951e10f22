// Companion is a stand-in for the service the Always On pinger keeps awake.
// It answers / with a short liveness message and logs every hit, which makes
// the pinger's cadence visible when developing locally.
//
// Usage:
//
//	go run ./scripts -port 8080
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/always-on/internal/httpserver"
	"github.com/angeloszaimis/always-on/pkg/logger"
)

func main() {
	port := flag.Int("port", 8080, "port to listen on")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.New(*level, false, "dev")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		log.Info("pinged",
			slog.String("from", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("I'm alive!"))
	})

	srv, err := httpserver.New(fmt.Sprintf(":%d", *port), mux)
	if err != nil {
		log.Error("invalid address", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Info("starting companion", slog.Int("port", *port))
	if err := srv.Start(); err != nil {
		log.Error("companion failed", slog.Any("err", err))
		cancel()
		os.Exit(1)
	}
}
