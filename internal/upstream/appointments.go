package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/salabelleza/agenda-console/internal/model"
)

// AppointmentsClient wraps /citas. Cancellation and completion are status
// transitions on the server; nothing here ever hard-deletes an appointment.
type AppointmentsClient struct {
	c     *client
	cache *queryCache
}

func (a *AppointmentsClient) All(ctx context.Context) ([]model.Appointment, error) {
	return cached(a.cache, "all", func() ([]model.Appointment, error) {
		var out []model.Appointment
		err := a.c.do(ctx, "GET", "/citas", nil, nil, &out, "citas")
		return out, err
	})
}

func (a *AppointmentsClient) ByID(ctx context.Context, id int64) (model.Appointment, error) {
	return cached(a.cache, fmt.Sprintf("id-%d", id), func() (model.Appointment, error) {
		var out model.Appointment
		err := a.c.do(ctx, "GET", fmt.Sprintf("/citas/%d", id), nil, nil, &out, "citas")
		return out, err
	})
}

func (a *AppointmentsClient) ByDate(ctx context.Context, date string) ([]model.Appointment, error) {
	return cached(a.cache, "fecha-"+date, func() ([]model.Appointment, error) {
		var out []model.Appointment
		err := a.c.do(ctx, "GET", "/citas/fecha/"+url.PathEscape(date), nil, nil, &out, "citas")
		return out, err
	})
}

func (a *AppointmentsClient) ByClient(ctx context.Context, clientID int64) ([]model.Appointment, error) {
	return cached(a.cache, fmt.Sprintf("cliente-%d", clientID), func() ([]model.Appointment, error) {
		var out []model.Appointment
		err := a.c.do(ctx, "GET", fmt.Sprintf("/citas/cliente/%d", clientID), nil, nil, &out, "citas")
		return out, err
	})
}

func (a *AppointmentsClient) ByStaff(ctx context.Context, staffID int64) ([]model.Appointment, error) {
	return cached(a.cache, fmt.Sprintf("personal-%d", staffID), func() ([]model.Appointment, error) {
		var out []model.Appointment
		err := a.c.do(ctx, "GET", fmt.Sprintf("/citas/personal/%d", staffID), nil, nil, &out, "citas")
		return out, err
	})
}

func (a *AppointmentsClient) ByStatus(ctx context.Context, status string) ([]model.Appointment, error) {
	return cached(a.cache, "estado-"+status, func() ([]model.Appointment, error) {
		var out []model.Appointment
		err := a.c.do(ctx, "GET", "/citas/estado/"+url.PathEscape(status), nil, nil, &out, "citas")
		return out, err
	})
}

func (a *AppointmentsClient) Create(ctx context.Context, req model.NewAppointment) (model.Appointment, error) {
	a.cache.invalidate()
	var out model.Appointment
	err := a.c.do(ctx, "POST", "/citas", nil, req, &out, "citas")
	return out, err
}

// UpdateStatus drives the backend's state machine via the dedicated endpoint.
func (a *AppointmentsClient) UpdateStatus(ctx context.Context, id int64, status string) (model.Appointment, error) {
	a.cache.invalidate()
	q := url.Values{"nuevoEstado": {status}}
	var out model.Appointment
	err := a.c.do(ctx, "PUT", fmt.Sprintf("/citas/%d/estado", id), q, struct{}{}, &out, "citas")
	return out, err
}

// Update tries the full-record PUT first. Some backend builds only expose the
// status endpoint, so a 404/405 falls back to UpdateStatus with the payload's
// status (PROGRAMADA when absent).
func (a *AppointmentsClient) Update(ctx context.Context, id int64, req model.NewAppointment) (model.Appointment, error) {
	a.cache.invalidate()
	var out model.Appointment
	err := a.c.do(ctx, "PUT", fmt.Sprintf("/citas/%d", id), nil, req, &out, "citas")
	if err != nil && verbUnsupported(err) {
		status := req.Status
		if status == "" {
			status = model.AppointmentScheduled
		}
		return a.UpdateStatus(ctx, id, status)
	}
	return out, err
}

func (a *AppointmentsClient) Confirm(ctx context.Context, id int64) (model.Appointment, error) {
	a.cache.invalidate()
	var out model.Appointment
	err := a.c.do(ctx, "PATCH", fmt.Sprintf("/citas/%d/confirmar", id), nil, struct{}{}, &out, "citas")
	return out, err
}

func (a *AppointmentsClient) Cancel(ctx context.Context, id int64, reason string) (model.Appointment, error) {
	a.cache.invalidate()
	body := struct {
		Reason string `json:"motivo,omitempty"`
	}{Reason: reason}
	var out model.Appointment
	err := a.c.do(ctx, "PATCH", fmt.Sprintf("/citas/%d/cancelar", id), nil, body, &out, "citas")
	return out, err
}

func (a *AppointmentsClient) Complete(ctx context.Context, id int64, notes string) (model.Appointment, error) {
	a.cache.invalidate()
	body := struct {
		Notes string `json:"observaciones,omitempty"`
	}{Notes: notes}
	var out model.Appointment
	err := a.c.do(ctx, "PATCH", fmt.Sprintf("/citas/%d/completar", id), nil, body, &out, "citas")
	return out, err
}

// Delete is deliberately a cancellation: the backend models appointment
// removal as a transition to CANCELADA, never a destructive delete.
func (a *AppointmentsClient) Delete(ctx context.Context, id int64) error {
	a.cache.invalidate()
	return a.c.do(ctx, "PUT", fmt.Sprintf("/citas/%d/cancelar", id), nil, nil, nil, "citas")
}
