package consolehttp

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/salabelleza/agenda-console/internal/upstream"
)

// ResourcesHandler serves the directory reads and the soft-delete flows that
// go through the cached clients instead of the raw proxy.
type ResourcesHandler struct {
	appointments *upstream.AppointmentsClient
	clients      *upstream.ClientsClient
	staff        *upstream.StaffClient
	services     *upstream.ServicesClient
	statuses     *upstream.StatusesClient
	users        *upstream.UsersClient
	logger       *slog.Logger
}

func NewResourcesHandler(api *upstream.API, logger *slog.Logger) *ResourcesHandler {
	return &ResourcesHandler{
		appointments: api.Appointments,
		clients:      api.Clients,
		staff:        api.Staff,
		services:     api.Services,
		statuses:     api.Statuses,
		users:        api.Users,
		logger:       logger,
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// ListAppointments honors fecha, clienteId, personalId and estado filters,
// falling back to the full listing when none is present.
func (h *ResourcesHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()
	switch {
	case q.Get("fecha") != "":
		h.respondList(w, func() (any, error) { return h.appointments.ByDate(ctx, q.Get("fecha")) })
	case q.Get("clienteId") != "":
		id, _ := strconv.ParseInt(q.Get("clienteId"), 10, 64)
		h.respondList(w, func() (any, error) { return h.appointments.ByClient(ctx, id) })
	case q.Get("personalId") != "":
		id, _ := strconv.ParseInt(q.Get("personalId"), 10, 64)
		h.respondList(w, func() (any, error) { return h.appointments.ByStaff(ctx, id) })
	case q.Get("estado") != "":
		h.respondList(w, func() (any, error) { return h.appointments.ByStatus(ctx, q.Get("estado")) })
	default:
		h.respondList(w, func() (any, error) { return h.appointments.All(ctx) })
	}
}

func (h *ResourcesHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid appointment id"})
		return
	}
	h.respondList(w, func() (any, error) { return h.appointments.ByID(r.Context(), id) })
}

func (h *ResourcesHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.URL.Query().Get("estado") {
	case "ACTIVO":
		h.respondList(w, func() (any, error) { return h.clients.Active(ctx) })
	case "INACTIVO":
		h.respondList(w, func() (any, error) { return h.clients.Inactive(ctx) })
	default:
		h.respondList(w, func() (any, error) { return h.clients.All(ctx) })
	}
}

func (h *ResourcesHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid client id"})
		return
	}
	if err := h.clients.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResourcesHandler) RestoreClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid client id"})
		return
	}
	h.respondList(w, func() (any, error) { return h.clients.Restore(r.Context(), id) })
}

func (h *ResourcesHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()
	switch {
	case q.Get("especialidad") != "":
		h.respondList(w, func() (any, error) { return h.staff.BySpecialty(ctx, q.Get("especialidad")) })
	case q.Get("buscar") != "":
		h.respondList(w, func() (any, error) { return h.staff.Search(ctx, q.Get("buscar")) })
	case q.Get("estado") == "INACTIVO":
		h.respondList(w, func() (any, error) { return h.staff.Inactive(ctx) })
	case q.Get("estado") == "ACTIVO":
		h.respondList(w, func() (any, error) { return h.staff.Active(ctx) })
	default:
		h.respondList(w, func() (any, error) { return h.staff.All(ctx) })
	}
}

func (h *ResourcesHandler) AvailableStaff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("fecha") == "" || q.Get("hora") == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "fecha and hora are required"})
		return
	}
	h.respondList(w, func() (any, error) { return h.staff.Available(r.Context(), q.Get("fecha"), q.Get("hora")) })
}

func (h *ResourcesHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid staff id"})
		return
	}
	if err := h.staff.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResourcesHandler) RestoreStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid staff id"})
		return
	}
	h.respondList(w, func() (any, error) { return h.staff.Restore(r.Context(), id) })
}

func (h *ResourcesHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()
	switch {
	case q.Get("buscar") != "":
		h.respondList(w, func() (any, error) { return h.services.Search(ctx, q.Get("buscar")) })
	case q.Get("incluirInactivos") == "true":
		h.respondList(w, func() (any, error) { return h.services.Everything(ctx) })
	case q.Get("estado") == "INACTIVO":
		h.respondList(w, func() (any, error) { return h.services.Inactive(ctx) })
	default:
		h.respondList(w, func() (any, error) { return h.services.All(ctx) })
	}
}

func (h *ResourcesHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid service id"})
		return
	}
	if err := h.services.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResourcesHandler) RestoreService(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid service id"})
		return
	}
	h.respondList(w, func() (any, error) { return h.services.Restore(r.Context(), id) })
}

// User accounts are never cached: the list must reflect toggles immediately.
func (h *ResourcesHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, func() (any, error) { return h.users.All(r.Context()) })
}

func (h *ResourcesHandler) ToggleUserActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}
	h.respondList(w, func() (any, error) { return h.users.ToggleActive(r.Context(), id) })
}

func (h *ResourcesHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	h.respondList(w, func() (any, error) { return h.statuses.All(r.Context()) })
}

func (h *ResourcesHandler) respondList(w http.ResponseWriter, fetch func() (any, error)) {
	out, err := fetch()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
