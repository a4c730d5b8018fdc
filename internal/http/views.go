package consolehttp

import (
	"net/http"

	"github.com/salabelleza/agenda-console/internal/reports"
)

// ViewsHandler serves the aggregated read models.
type ViewsHandler struct {
	reports *reports.Service
}

func NewViewsHandler(rep *reports.Service) *ViewsHandler {
	return &ViewsHandler{reports: rep}
}

// Dashboard always answers 200. When the backend is degraded the payload
// carries sample figures flagged with datosDeEjemplo.
func (h *ViewsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reports.Dashboard(r.Context()))
}

// Report answers the management summary, same degraded-mode contract as the
// dashboard.
func (h *ViewsHandler) Report(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.reports.Report(r.Context()))
}
