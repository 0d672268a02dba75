package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/comunifi/sponsor-relay/internal/tx"
	"github.com/comunifi/sponsor-relay/internal/version"
)

func (s *Server) CreateBaseRouter() *chi.Mux {
	cr := chi.NewRouter()

	return cr
}

func (s *Server) AddMiddleware(cr *chi.Mux) *chi.Mux {

	// configure middleware
	cr.Use(middleware.RequestID)
	cr.Use(middleware.RealIP)
	cr.Use(middleware.Logger)
	cr.Use(middleware.Recoverer)

	// configure custom middleware
	cr.Use(cors.AllowAll().Handler)
	cr.Use(middleware.Heartbeat("/health"))
	cr.Use(InstrumentMiddleware)
	cr.Use(RequestSizeLimitMiddleware(s.maxBodySize))

	return cr
}

func (s *Server) AddRoutes(cr *chi.Mux) *chi.Mux {
	// instantiate handlers
	v := version.NewService(s.info)
	t := tx.NewService(s.txq, s.timeout)

	// configure routes
	cr.Route("/version", func(cr chi.Router) {
		cr.Get("/", v.Current)
	})

	cr.Post("/tx", t.Relay)

	cr.Handle("/metrics", promhttp.Handler())

	return cr
}
