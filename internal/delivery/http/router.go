package http

import (
	"net/http"

	"github.com/evi1sylar/skillbox30hw/internal/delivery/http/middleware"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	clientHandler  *ClientHandler
	parkingHandler *ParkingHandler
	sessionHandler *SessionHandler
	logger         logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	clientHandler *ClientHandler,
	parkingHandler *ParkingHandler,
	sessionHandler *SessionHandler,
	logger logger.Logger,
) *Router {
	return &Router{
		clientHandler:  clientHandler,
		parkingHandler: parkingHandler,
		sessionHandler: sessionHandler,
		logger:         logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Client endpoints
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", rt.clientHandler.CreateClient)
			r.Get("/", rt.clientHandler.ListClients)
			r.Get("/{id}", rt.clientHandler.GetClientByID)
		})

		// Parking endpoints
		r.Route("/parkings", func(r chi.Router) {
			r.Post("/", rt.parkingHandler.CreateParking)
			r.Get("/", rt.parkingHandler.ListParkings)
			r.Get("/{id}", rt.parkingHandler.GetParkingByID)
		})

		// Session endpoints
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/enter", rt.sessionHandler.Enter)
			// Выезд по DELETE: сессия перестает быть активной
			r.Delete("/exit", rt.sessionHandler.Exit)
			r.Get("/active", rt.sessionHandler.ListActive)
			r.Get("/candidates", rt.sessionHandler.EntryCandidates)
		})

		// Dashboard stats
		r.Get("/stats", rt.sessionHandler.Stats)
	})

	return r
}
