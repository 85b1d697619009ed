package http

import (
	"net/http"

	"stb-telemetry/internal/batchers"
	"stb-telemetry/internal/ingestors"
	"stb-telemetry/internal/shared/loggers"
	"stb-telemetry/internal/shared/metrics"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(ingestionService ingestors.IngestionService, engine batchers.Engine, httpLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	ingestEventsHandler := NewIngestEventsHandler(ingestionService)
	flushHandler := NewFlushHandler(engine)
	listBatchesHandler := NewListBatchesHandler(engine)

	// Routes
	engineAvailable := mwEngineAvailable(engine)
	router.With(engineAvailable).Post("/events", errorHandlingAdapter(ingestEventsHandler))
	router.Route("/admin", func(admin chi.Router) {
		admin.With(engineAvailable).Post("/flush", errorHandlingAdapter(flushHandler))
		admin.Get("/batches", errorHandlingAdapter(listBatchesHandler))
	})
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
