package hc

import (
	"context"
	"net/http"
	"time"

	"twapvault/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Checker reports whether a dependency is healthy
type Checker func(ctx context.Context) (bool, error)

// Handle handle hc request
func Handle(ver string, oracle Checker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, oracle))
	return r
}

func handle(version string, oracle Checker) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(b).Truncate(time.Millisecond)
		healthy, err := oracle(r.Context())
		render.JSON(w, render.H{
			"uptime":  uptime.String(),
			"version": version,
			"oracle":  healthy && err == nil,
		})
	}
}
