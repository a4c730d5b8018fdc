package consolehttp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/salabelleza/agenda-console/internal/availability"
	"github.com/salabelleza/agenda-console/internal/model"
	"github.com/salabelleza/agenda-console/internal/upstream"
	"github.com/salabelleza/agenda-console/internal/workflow"
)

// AgendaHandler exposes the appointment workflow: availability checks,
// status transitions, and guarded creation.
type AgendaHandler struct {
	appointments *upstream.AppointmentsClient
	services     *upstream.ServicesClient
	checker      *availability.Checker
	workflow     *workflow.Workflow
	logger       *slog.Logger
}

func NewAgendaHandler(appointments *upstream.AppointmentsClient, services *upstream.ServicesClient, checker *availability.Checker, wf *workflow.Workflow, logger *slog.Logger) *AgendaHandler {
	return &AgendaHandler{
		appointments: appointments,
		services:     services,
		checker:      checker,
		workflow:     wf,
		logger:       logger,
	}
}

type availabilityResponse struct {
	Determined bool               `json:"verificado"`
	Conflict   bool               `json:"conflicto"`
	Blocking   *model.Appointment `json:"citaEnConflicto,omitempty"`
	Message    string             `json:"mensaje,omitempty"`
}

// conflictMessage is the single wording for a slot clash, shared by the
// availability check and the create guard.
func conflictMessage(blocking *model.Appointment) string {
	if blocking == nil {
		return ""
	}
	return "The staff member already has a scheduled appointment from " +
		blocking.StartTime + " to " + blocking.EndTime + ". Choose another slot."
}

// CheckAvailability answers GET /citas/disponibilidad?personalId=&fecha=&hora=.
// Missing inputs yield an unverified response rather than a guess; a failed
// backend fetch is an error, never "available".
func (h *AgendaHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	staffID, _ := strconv.ParseInt(r.URL.Query().Get("personalId"), 10, 64)
	date := r.URL.Query().Get("fecha")
	hour := r.URL.Query().Get("hora")

	result, err := h.checker.Check(r.Context(), staffID, date, hour)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res := availabilityResponse{Determined: result.Determined, Conflict: result.Conflict, Blocking: result.Blocking}
	if result.Conflict {
		res.Message = conflictMessage(result.Blocking)
	}
	writeJSON(w, http.StatusOK, res)
}

type transitionBody struct {
	Status string `json:"nuevoEstado"`
}

type transitionResponse struct {
	Appointment model.Appointment `json:"cita"`
	NoOp        bool              `json:"sinCambios"`
	Payment     *model.Payment    `json:"pago,omitempty"`
	Warning     string            `json:"advertencia,omitempty"`
}

// Transition answers PUT /citas/{id}/estado. A same-status request is a
// reported no-op; a payment-creation failure after ATENDIDA surfaces as a
// warning on a 200, not a failure.
func (h *AgendaHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid appointment id"})
		return
	}

	var body transitionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		// Mirror the backend's own querystring convention as a fallback.
		body.Status = r.URL.Query().Get("nuevoEstado")
	}
	if body.Status == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "nuevoEstado is required"})
		return
	}

	result, err := h.workflow.Transition(r.Context(), id, body.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res := transitionResponse{Appointment: result.Appointment, NoOp: result.NoOp, Payment: result.Payment}
	if result.NoOp {
		res.Warning = "the appointment already has that status; nothing was sent"
	}
	if result.PaymentWarning != nil {
		res.Warning = result.PaymentWarning.Error()
	}
	writeJSON(w, http.StatusOK, res)
}

type createAppointmentBody struct {
	ClientID  int64  `json:"clienteId"`
	StaffID   int64  `json:"personalId"`
	ServiceID int64  `json:"servicioId"`
	Date      string `json:"fecha"`
	StartTime string `json:"horaInicio"`
	Notes     string `json:"observaciones"`
}

// Create books an appointment: conflict check first, end time derived from
// the service duration, status forced to PROGRAMADA.
func (h *AgendaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createAppointmentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}
	if body.ClientID == 0 || body.StaffID == 0 || body.ServiceID == 0 || body.Date == "" || body.StartTime == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "clienteId, personalId, servicioId, fecha and horaInicio are required"})
		return
	}

	result, err := h.checker.Check(r.Context(), body.StaffID, body.Date, body.StartTime)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if result.Conflict {
		writeJSON(w, http.StatusConflict, availabilityResponse{
			Determined: true,
			Conflict:   true,
			Blocking:   result.Blocking,
			Message:    conflictMessage(result.Blocking),
		})
		return
	}

	svc, err := h.services.ByID(r.Context(), body.ServiceID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	duration := svc.DurationMinutes
	if duration <= 0 {
		duration = 30
	}
	endTime, err := availability.EndTime(body.StartTime, duration)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid horaInicio", Detail: err.Error()})
		return
	}

	created, err := h.appointments.Create(r.Context(), model.NewAppointment{
		ClientID:  body.ClientID,
		StaffID:   body.StaffID,
		ServiceID: body.ServiceID,
		Date:      body.Date,
		StartTime: body.StartTime,
		EndTime:   endTime,
		Notes:     body.Notes,
		Status:    model.AppointmentScheduled,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
