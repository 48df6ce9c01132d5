package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminhandler "bloodlink/internal/admin/handler"
	authhandler "bloodlink/internal/auth/handler"
	chatbothandler "bloodlink/internal/chatbot/handler"
	donationhandler "bloodlink/internal/donation/handler"
	donorhandler "bloodlink/internal/donor/handler"
	emergencyhandler "bloodlink/internal/emergency/handler"
	inventoryhandler "bloodlink/internal/inventory/handler"
	jwttoken "bloodlink/internal/jwt_token"
	organizationhandler "bloodlink/internal/organization/handler"
	"bloodlink/internal/platform/config"
	"bloodlink/internal/platform/metrics"
	"bloodlink/internal/platform/middleware"
	seekerhandler "bloodlink/internal/seeker/handler"
	"bloodlink/pkg/domain"
	"bloodlink/pkg/platform/httputil"
	adminmw "bloodlink/pkg/platform/middleware/admin"
	authmw "bloodlink/pkg/platform/middleware/auth"
	"bloodlink/pkg/platform/middleware/metadata"
	"bloodlink/pkg/platform/middleware/request"
	"bloodlink/pkg/platform/middleware/requesttime"
)

func newRouter(cfg config.Server, a *app, in *infra, log *slog.Logger, m *metrics.Metrics) http.Handler {
	auth := authhandler.New(a.auth, log)
	donors := donorhandler.New(a.donors, log)
	donations := donationhandler.New(a.donations, log)
	organizations := organizationhandler.New(a.organizations, log)
	inventory := inventoryhandler.New(a.inventory, log)
	emergencies := emergencyhandler.New(a.emergencies, log)
	seekers := seekerhandler.New(a.seekers, log)
	admin := adminhandler.New(a.admin, log)
	bot := chatbothandler.New(a.chatbot, log)

	requireAuth := authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(a.jwt), a.auth, log)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.LatencyMiddleware(m))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := in.Health(r.Context()); err != nil {
			log.WarnContext(r.Context(), "health check failed", "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Use(middleware.ContentTypeJSON)

		auth.RegisterPublic(r)
		donors.RegisterPublic(r)
		organizations.RegisterPublic(r)
		emergencies.RegisterPublic(r)
		seekers.RegisterPublic(r)
		bot.RegisterPublic(r)

		r.Group(func(r chi.Router) {
			r.Use(adminmw.RequireAdminToken(cfg.Auth.AdminToken, log))
			auth.RegisterBootstrap(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			auth.RegisterAuthenticated(r)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireRole(log, domain.RoleDonor))
				donors.RegisterDonorRoutes(r)
				donations.RegisterDonorRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireRole(log, domain.RoleOrganization))
				organizations.RegisterOrganizationRoutes(r)
				inventory.RegisterOrganizationRoutes(r)
				emergencies.RegisterOrganizationRoutes(r)
				donations.RegisterOrganizationRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireRole(log, domain.RoleOrganization, domain.RoleAdmin))
				donors.RegisterSearchRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireRole(log, domain.RoleAdmin))
				admin.RegisterAdminRoutes(r)
				seekers.RegisterAdminRoutes(r)
			})
		})
	})

	// Streams stay open past the request timeout.
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Use(authmw.RequireRole(log, domain.RoleDonor))
		donors.RegisterStreamRoutes(r)
	})

	return r
}
