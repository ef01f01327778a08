package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/safemon-lab/pallas/pkg/domain/interfaces"
	"github.com/safemon-lab/pallas/pkg/usecase"
)

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server exposing the ingest and risk APIs
func NewServer(
	ctx context.Context,
	addr string,
	repo interfaces.Repository,
	ingestUC usecase.IngestUseCase,
	riskUC usecase.RiskUseCase,
) *Server {
	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	incidentHandler := NewIncidentHandler(ingestUC, riskUC)
	locationHandler := NewLocationHandler(ingestUC, repo)
	riskHandler := NewRiskHandler(riskUC)

	// Health check
	router.Get("/health", handleHealth)

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Route("/incidents", func(r chi.Router) {
			r.Post("/", incidentHandler.HandleIngest)
			r.Get("/", incidentHandler.HandleList)
		})

		r.Route("/locations", func(r chi.Router) {
			r.Post("/", locationHandler.HandlePutSnapshot)
			r.Get("/", locationHandler.HandleList)
		})

		r.Route("/risk", func(r chi.Router) {
			r.Get("/", riskHandler.HandleRiskMap)
			r.Get("/{locationID}", riskHandler.HandleLocationRisk)
		})
	})

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}
}

// Router returns the underlying router, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
