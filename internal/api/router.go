package api

import (
	"darp-checker/internal/api/handlers"
	"net/http"
)

// NewRouter wires HTTP handlers and returns an http.Handler.
// results may be nil when no result store is configured.
func NewRouter(checks *handlers.CheckHandler, results *handlers.ResultHandler) http.Handler {
	mux := http.NewServeMux()

	if results == nil {
		results = &handlers.ResultHandler{}
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/checks", checks.Check)
	mux.HandleFunc("/runs/{runID}/results", results.List)

	return loggingMiddleware(mux)
}
