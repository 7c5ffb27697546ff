package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/content-generator/internal/api"
	apiMiddleware "github.com/phrazzld/content-generator/internal/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// generationPaths are the mount points of the generation endpoint. The second
// keeps the path clients of the hosted edge function already call.
var generationPaths = []string{
	"/generate-content",
	"/functions/v1/generate-content",
}

// setupRouter creates the router with middleware and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// CORS headers are set first so that every response carries them,
	// including 500s written by the recoverer.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
		// Preflight requests reach the handler, which answers with an empty 200.
		OptionsPassthrough: true,
		MaxAge:             300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.tracer, app.logger))

	contentHandler := api.NewContentHandler(app.contentService, app.logger)

	for _, path := range generationPaths {
		r.Options(path, contentHandler.Options)
		r.Group(func(r chi.Router) {
			if app.jwtService != nil {
				r.Use(apiMiddleware.NewAuthMiddleware(app.jwtService).Authenticate)
			}
			r.Post(path, contentHandler.GenerateContent)
		})
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	return r
}
