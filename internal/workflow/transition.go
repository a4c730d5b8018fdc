// Package workflow drives the appointment and payment state machines:
// which transitions are legal, and the side effects they carry.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/salabelleza/agenda-console/internal/model"
)

// Appointments and Payments are the slices of the upstream API the workflow
// needs; the concrete clients satisfy them.
type Appointments interface {
	ByID(ctx context.Context, id int64) (model.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status string) (model.Appointment, error)
}

type Payments interface {
	ByID(ctx context.Context, id int64) (model.Payment, error)
	Create(ctx context.Context, req model.NewPayment) (model.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status string) (model.Payment, error)
	Refund(ctx context.Context, id int64) error
}

var ErrUnknownStatus = errors.New("unknown appointment status")

type Workflow struct {
	appointments Appointments
	payments     Payments
	logger       *slog.Logger
}

func New(appointments Appointments, payments Payments, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{appointments: appointments, payments: payments, logger: logger}
}

// TransitionResult reports what a transition actually did. NoOp means the
// appointment already held the requested status and nothing was sent to the
// backend. PaymentWarning is non-nil when the status change succeeded but the
// derived payment could not be created; the operator must create it manually.
type TransitionResult struct {
	Appointment    model.Appointment
	NoOp           bool
	Payment        *model.Payment
	PaymentWarning error
}

// Transition moves an appointment to newStatus. On the PROGRAMADA → ATENDIDA
// path it then creates exactly one PENDIENTE payment for the service price
// (0 when the price is unknown), method EFECTIVO. Payment failure never rolls
// the status back.
func (w *Workflow) Transition(ctx context.Context, id int64, newStatus string) (TransitionResult, error) {
	switch newStatus {
	case model.AppointmentScheduled, model.AppointmentAttended, model.AppointmentCancelled:
	default:
		return TransitionResult{}, fmt.Errorf("%w: %q", ErrUnknownStatus, newStatus)
	}

	current, err := w.appointments.ByID(ctx, id)
	if err != nil {
		return TransitionResult{}, err
	}
	if current.Status == newStatus {
		return TransitionResult{Appointment: current, NoOp: true}, nil
	}

	updated, err := w.appointments.UpdateStatus(ctx, id, newStatus)
	if err != nil {
		return TransitionResult{}, err
	}
	result := TransitionResult{Appointment: updated}

	if newStatus != model.AppointmentAttended {
		return result, nil
	}

	var amount float64
	if current.Service != nil {
		amount = current.Service.Price
	}
	payment, err := w.payments.Create(ctx, model.NewPayment{
		AppointmentID: id,
		Amount:        amount,
		Method:        model.PaymentMethodCash,
	})
	if err != nil {
		w.logger.Warn("attended appointment left without payment",
			"appointment_id", id, "amount", amount, "err", err)
		result.PaymentWarning = fmt.Errorf("appointment marked %s but the payment could not be created automatically; create it manually: %w",
			model.AppointmentAttended, err)
		return result, nil
	}
	result.Payment = &payment
	return result, nil
}

// Cancel is a transition to CANCELADA; the record is never removed.
func (w *Workflow) Cancel(ctx context.Context, id int64) (TransitionResult, error) {
	return w.Transition(ctx, id, model.AppointmentCancelled)
}

// Restore is the administrative recovery path back to PROGRAMADA, outside
// the normal one-directional flow.
func (w *Workflow) Restore(ctx context.Context, id int64) (TransitionResult, error) {
	return w.Transition(ctx, id, model.AppointmentScheduled)
}
