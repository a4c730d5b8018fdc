// Package consolehttp is the console's own HTTP surface: session endpoints,
// the aggregated views, the workflow actions, and a pass-through proxy for
// plain CRUD against the backend.
package consolehttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/salabelleza/agenda-console/internal/availability"
	"github.com/salabelleza/agenda-console/internal/upstream"
	"github.com/salabelleza/agenda-console/internal/workflow"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeError translates the error taxonomy into a response status plus
// operator-facing text. Upstream status codes pass through unchanged.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, upstream.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, upstream.ErrUnreachable):
		status = http.StatusBadGateway
	case errors.Is(err, workflow.ErrRefundNotAllowed):
		status = http.StatusConflict
	case errors.Is(err, workflow.ErrUnknownStatus):
		status = http.StatusBadRequest
	case errors.Is(err, availability.ErrCheckUnavailable):
		status = http.StatusBadGateway
	default:
		var apiErr *upstream.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
	}

	if status >= 500 {
		logger.Error("request failed", "status", status, "err", err)
	}

	msg := upstream.UserMessage(err)
	if errors.Is(err, workflow.ErrRefundNotAllowed) || errors.Is(err, workflow.ErrUnknownStatus) {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Error: msg, Detail: err.Error()})
}
