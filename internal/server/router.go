package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"prelaunch/internal/admin"
	"prelaunch/internal/platform/middleware"
	reservationhandler "prelaunch/internal/reservation/handler"
)

// NewRouter assembles the public registration endpoint, the token-guarded
// admin surface and the operational endpoints.
func NewRouter(reg *reservationhandler.Handler, adm *admin.Handler, adminToken string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	reg.Register(r)

	r.Group(func(gr chi.Router) {
		gr.Use(middleware.RequireAdminToken(adminToken, logger))
		adm.Register(gr)
	})

	return r
}
