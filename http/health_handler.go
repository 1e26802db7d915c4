package http

import (
	"net/http"

	"finance-advisor/service"
)

type HealthHandler struct {
	service *service.RecommendationService
}

func NewHealthHandler(service *service.RecommendationService) *HealthHandler {
	return &HealthHandler{service: service}
}

// Health reports service status and whether the generator backend answers.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Health(r.Context()))
}

func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Personal finance recommender",
		"service": service.ServiceName,
		"version": service.ServiceVersion,
		"status":  "running",
		"endpoints": map[string]string{
			"recommendations": "/api/recommendations",
			"health":          "/health",
		},
	})
}
