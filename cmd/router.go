package main

import (
	"net/http"

	"github.com/angeloszaimis/always-on/internal/liveness"
)

func setupRouter(livenessHandler *liveness.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", livenessHandler.Root)
	mux.HandleFunc("GET /health", livenessHandler.Health)

	return livenessHandler.LogRequests(mux)
}
