package handler

import (
	"net/http"

	"twapvault/core"
	"twapvault/handler/auth"
	"twapvault/handler/hc"
	"twapvault/handler/rest"
	"twapvault/pkg/metrics"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
)

// Server server
type Server struct {
	system *core.System
	ledger core.ILedgerService
	oracle core.IPriceOracle
}

// New new server function
func New(
	system *core.System,
	ledger core.ILedgerService,
	oracle core.IPriceOracle,
) Server {
	return Server{
		system: system,
		ledger: ledger,
		oracle: oracle,
	}
}

// Handler the http handler serving /hc, /metrics and /api
func (s Server) Handler() http.Handler {
	mux := chi.NewMux()
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(logger.WithRequestID)
	mux.Use(middleware.Logger)

	mux.Mount("/hc", hc.Handle(s.system.Version, s.oracle.IsHealthy))
	mux.Mount("/metrics", metrics.Handler())
	mux.Mount("/api", s.HandleRestAPI())

	return mux
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(auth.HandleAuthentication())
	r.Mount("/", rest.Handle(s.system, s.ledger, s.oracle))
	return r
}
