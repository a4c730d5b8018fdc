package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/salabelleza/agenda-console/internal/model"
)

// ErrRefundNotAllowed is raised locally, before any network call, when a
// refund is requested for a payment that is not PAGADO.
var ErrRefundNotAllowed = errors.New("only PAGADO payments can be refunded")

// Refund checks the precondition against the current record and then asks
// the backend to flip the payment to REEMBOLSADO. A backend 400 (raced state
// change) propagates verbatim.
func (w *Workflow) Refund(ctx context.Context, paymentID int64) (model.Payment, error) {
	payment, err := w.payments.ByID(ctx, paymentID)
	if err != nil {
		return model.Payment{}, err
	}
	if payment.Status != model.PaymentPaid {
		return model.Payment{}, fmt.Errorf("%w (current status %s)", ErrRefundNotAllowed, payment.Status)
	}
	if err := w.payments.Refund(ctx, paymentID); err != nil {
		return model.Payment{}, err
	}
	payment.Status = model.PaymentRefunded
	return payment, nil
}

// Settle marks a PENDIENTE payment as PAGADO.
func (w *Workflow) Settle(ctx context.Context, paymentID int64) (model.Payment, error) {
	return w.payments.UpdateStatus(ctx, paymentID, model.PaymentPaid)
}
