package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"finance-advisor/service"
)

// NewRouter mounts the public routes. limiter may be nil to disable rate
// limiting.
func NewRouter(svc *service.RecommendationService, limiter *RateLimiter) http.Handler {
	recommendationHandler := NewRecommendationHandler(svc)
	healthHandler := NewHealthHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)

	var recommend http.Handler = http.HandlerFunc(recommendationHandler.Recommend)
	if limiter != nil {
		recommend = RateLimitMiddleware(limiter, recommend)
	}
	r.Method(http.MethodPost, "/api/recommendations", recommend)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	return r
}
