// Package httpserver exposes the DocuVault JSON API.
package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/and161185/docuvault/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	registry service.RegistryService
	catalog  service.CatalogService
	uploads  *service.UploadPipeline
	log      *zap.Logger
}

// New constructs a server with injected services.
func New(registry service.RegistryService, catalog service.CatalogService, uploads *service.UploadPipeline, log *zap.Logger) *Server {
	return &Server{registry: registry, catalog: catalog, uploads: uploads, log: log}
}

// Router builds the route tree with middleware applied.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(Recover(s.log))
	r.Use(Logging(s.log))
	r.Use(Metrics())

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.Auth)
			r.Post("/files", s.handleUpload)
			r.Get("/files", s.handleList)
			r.Route("/files/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Patch("/", s.handleUpdate)
				r.Delete("/", s.handleDelete)
				r.Get("/preview", s.handlePreview)
				r.Get("/content", s.handleContent)
				r.Post("/copies", s.handleCopies)
			})
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
