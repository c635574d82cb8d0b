package http

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
	"github.com/m-mizutani/imgbb/pkg/utils/safe"
)

//go:embed static/index.html
var indexHTML []byte

// Server represents the HTTP server
type Server struct {
	router   *chi.Mux
	uploadUC interfaces.UploadUseCases
}

// Options is a functional option for Server
type Options func(*Server)

// WithUploadUseCases sets the upload use cases
func WithUploadUseCases(uc interfaces.UploadUseCases) Options {
	return func(s *Server) {
		s.uploadUC = uc
	}
}

// New creates a new HTTP server
func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Apply middleware
	r.Use(accessLog)
	r.Use(recoverJSON)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, indexHTML)
	})

	r.Get("/health", s.handleHealth)

	if s.uploadUC != nil {
		ctrl := NewUploadController(s.uploadUC)
		r.Route("/api", func(r chi.Router) {
			r.Post("/upload", ctrl.HandleUpload)
			r.Get("/receipts", ctrl.HandleListReceipts)
			r.Get("/receipts/{receiptID}", ctrl.HandleGetReceipt)
		})
	}

	return s
}

type healthResponse struct {
	Status           string `json:"status"`
	APIKeyConfigured bool   `json:"api_key_configured"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, &healthResponse{
		Status:           "healthy",
		APIKeyConfigured: s.uploadUC != nil && s.uploadUC.APIKeyConfigured(),
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
