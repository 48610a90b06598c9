package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the project routes plus /health and /metrics.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(s.logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/project", s.getProject)
		r.Get("/ranking", s.getRanking)
		r.Post("/save", s.saveProject)

		r.Get("/properties", s.listProperties)
		r.Post("/properties", s.addProperty)
		r.Patch("/properties/{name}", s.updateProperty)
		r.Delete("/properties/{name}", s.removeProperty)

		r.Post("/specimens", s.addSpecimen)
		r.Patch("/specimens/{id}", s.updateSpecimen)
		r.Delete("/specimens/{id}", s.removeSpecimen)
	})

	return r
}
