package hc

import (
	"net/http"
	"time"

	"dsc/core"
	"dsc/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Handle reports uptime, version and the engine it serves
func Handle(ver string, engine core.IEngine) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, engine))
	return r
}

func handle(version string, engine core.IEngine) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(b).Truncate(time.Millisecond)
		render.JSON(w, render.H{
			"uptime":      uptime.String(),
			"version":     version,
			"engine":      engine.Address(),
			"collaterals": len(engine.CollateralTokens()),
		})
	}
}
