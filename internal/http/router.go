package consolehttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salabelleza/agenda-console/libs/runtime"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth        *AuthHandler
	Agenda      *AgendaHandler
	Payments    *PaymentsHandler
	Resources   *ResourcesHandler
	Views       *ViewsHandler
	Proxy       http.Handler
	Registry    *prometheus.Registry
	ReadyChecks []runtime.ReadyCheck
}

// NewRouter wires the console surface under /api/v1. Everything except login
// and the health probes sits behind the session gate; billing mutations
// additionally require the ADMIN role. Unmatched API paths fall through to
// the backend proxy.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	probes := runtime.NewBaseMuxWithReady(h.ReadyChecks...)
	r.Handle("/healthz", probes)
	r.Handle("/readyz", probes)
	if h.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/auth/login", h.Auth.Login)

		api.Group(func(priv chi.Router) {
			priv.Use(h.Auth.RequireSession)

			priv.Post("/auth/logout", h.Auth.Logout)
			priv.Get("/auth/session", h.Auth.Session)

			priv.Get("/citas", h.Resources.ListAppointments)
			priv.Get("/citas/disponibilidad", h.Agenda.CheckAvailability)
			priv.Get("/citas/{id}", h.Resources.GetAppointment)
			priv.Post("/citas", h.Agenda.Create)
			priv.Put("/citas/{id}/estado", h.Agenda.Transition)

			priv.Get("/clientes", h.Resources.ListClients)
			priv.Delete("/clientes/{id}", h.Resources.DeleteClient)
			priv.Put("/clientes/{id}/restaurar", h.Resources.RestoreClient)

			priv.Get("/personal", h.Resources.ListStaff)
			priv.Get("/personal/disponibles", h.Resources.AvailableStaff)
			priv.Delete("/personal/{id}", h.Resources.DeleteStaff)
			priv.Put("/personal/{id}/restaurar", h.Resources.RestoreStaff)

			priv.Get("/servicios", h.Resources.ListServices)
			priv.Delete("/servicios/{id}", h.Resources.DeleteService)
			priv.Put("/servicios/{id}/restaurar", h.Resources.RestoreService)

			priv.Get("/estados", h.Resources.ListStatuses)

			priv.Get("/dashboard", h.Views.Dashboard)
			priv.Get("/reportes", h.Views.Report)

			priv.Group(func(admin chi.Router) {
				admin.Use(h.Auth.RequireRole("ADMIN", "ADMINISTRADOR"))
				admin.Put("/pagos/{id}/reembolsar", h.Payments.Refund)
				admin.Put("/pagos/{id}/pagar", h.Payments.Settle)
				admin.Patch("/pagos/{id}/metodo", h.Payments.UpdateMethod)

				admin.Get("/usuarios", h.Resources.ListUsers)
				admin.Patch("/usuarios/{id}/toggle-activo", h.Resources.ToggleUserActive)
			})

			// Anything else under the API prefix is plain CRUD the backend
			// already speaks; hand it through untouched.
			priv.Handle("/*", h.Proxy)
		})
	})

	return r
}
