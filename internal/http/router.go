package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/http/auth"
	"github.com/MrJamesThe3rd/chama/internal/http/export"
	"github.com/MrJamesThe3rd/chama/internal/http/ledger"
	"github.com/MrJamesThe3rd/chama/internal/http/member"
	"github.com/MrJamesThe3rd/chama/internal/http/notification"
	"github.com/MrJamesThe3rd/chama/internal/http/report"
	"github.com/MrJamesThe3rd/chama/internal/http/respond"
)

type Options struct {
	CORSOrigins []string
	// Authenticate guards every treasurer route.
	Authenticate func(http.Handler) http.Handler
	// Metrics is served at /metrics when set.
	Metrics http.Handler
	// Health reports whether the service can reach its dependencies.
	Health func(ctx context.Context) error
}

func New(
	opts Options,
	authV1 *auth.Handler,
	membersV1 *member.Handler,
	ledgerV1 *ledger.Handler,
	notificationsV1 *notification.Handler,
	reportsV1 *report.Handler,
	exportsV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", health(opts.Health))

	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/treasurer", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				authV1.Routes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(opts.Authenticate)
				authV1.ProtectedRoutes(r)
			})
		})

		r.Route("/members", func(r chi.Router) {
			membersV1.PublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(opts.Authenticate)
				membersV1.Routes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(opts.Authenticate)

			r.Route("/ledger", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				ledgerV1.Routes(r)
			})

			r.Route("/notifications", notificationsV1.Routes)
			r.Route("/reports", func(r chi.Router) {
				reportsV1.Routes(r)
				r.Route("/export", exportsV1.Routes)
			})
			r.Route("/dashboard", reportsV1.DashboardRoutes)
			r.Route("/treasury", reportsV1.TreasuryRoutes)
		})
	})

	return router
}

func health(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := check(ctx); err != nil {
				respond.Error(w, r, apperror.Wrap(apperror.KindResourceExhausted, "service unavailable", err))
				return
			}
		}

		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
