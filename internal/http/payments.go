package consolehttp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/salabelleza/agenda-console/internal/upstream"
	"github.com/salabelleza/agenda-console/internal/workflow"
)

// PaymentsHandler exposes the billing workflow on top of the raw payments
// resource: refunds, settlement, and method changes with local guards.
type PaymentsHandler struct {
	payments *upstream.PaymentsClient
	workflow *workflow.Workflow
	logger   *slog.Logger
}

func NewPaymentsHandler(payments *upstream.PaymentsClient, wf *workflow.Workflow, logger *slog.Logger) *PaymentsHandler {
	return &PaymentsHandler{payments: payments, workflow: wf, logger: logger}
}

// Refund answers PUT /pagos/{id}/reembolsar. Only a PAGADO payment is
// refundable; the guard fails locally before any request goes out.
func (h *PaymentsHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payment id"})
		return
	}
	payment, err := h.workflow.Refund(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

// Settle answers PUT /pagos/{id}/pagar, marking a pending payment as PAGADO.
func (h *PaymentsHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payment id"})
		return
	}
	payment, err := h.workflow.Settle(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

type methodBody struct {
	Method string `json:"nuevoMetodo"`
}

// UpdateMethod answers PATCH /pagos/{id}/metodo.
func (h *PaymentsHandler) UpdateMethod(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payment id"})
		return
	}
	var body methodBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Method == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "nuevoMetodo is required"})
		return
	}
	payment, err := h.payments.UpdateMethod(r.Context(), id, body.Method)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}
