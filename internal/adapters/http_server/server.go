package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

type Options struct {
	RequestTimeout time.Duration
	CORSOrigins    []string
}

type Server struct{ mux *chi.Mux }

func New(o Options) *Server {
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 90 * time.Second
	}
	if len(o.CORSOrigins) == 0 {
		o.CORSOrigins = []string{"*"}
	}

	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(Logger(log.Logger))
	m.Use(Recover)
	m.Use(cors.New(cors.Options{
		AllowedOrigins: o.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}).Handler)
	m.Use(Timeout(o.RequestTimeout))
	m.Use(Metrics)

	m.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Recurso não encontrado.")
	})
	m.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Método não permitido.")
	})

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
