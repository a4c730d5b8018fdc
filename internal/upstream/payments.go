package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/salabelleza/agenda-console/internal/model"
)

// PaymentsClient wraps /pagos.
type PaymentsClient struct {
	c     *client
	cache *queryCache
}

// All lists every payment. If the cached read fails, the cache is wiped and
// one direct request is attempted before giving up.
func (p *PaymentsClient) All(ctx context.Context) ([]model.Payment, error) {
	out, err := cached(p.cache, "all", func() ([]model.Payment, error) {
		var list []model.Payment
		err := p.c.do(ctx, "GET", "/pagos", nil, nil, &list, "pagos")
		return list, err
	})
	if err == nil {
		return out, nil
	}

	p.cache.invalidate()
	var list []model.Payment
	if directErr := p.c.do(ctx, "GET", "/pagos", nil, nil, &list, "pagos"); directErr != nil {
		return nil, directErr
	}
	return list, nil
}

func (p *PaymentsClient) ByID(ctx context.Context, id int64) (model.Payment, error) {
	return cached(p.cache, fmt.Sprintf("id-%d", id), func() (model.Payment, error) {
		var out model.Payment
		err := p.c.do(ctx, "GET", fmt.Sprintf("/pagos/%d", id), nil, nil, &out, "pagos")
		return out, err
	})
}

func (p *PaymentsClient) ByAppointment(ctx context.Context, appointmentID int64) ([]model.Payment, error) {
	return cached(p.cache, fmt.Sprintf("cita-%d", appointmentID), func() ([]model.Payment, error) {
		var out []model.Payment
		err := p.c.do(ctx, "GET", fmt.Sprintf("/pagos/cita/%d", appointmentID), nil, nil, &out, "pagos")
		return out, err
	})
}

func (p *PaymentsClient) ByDateRange(ctx context.Context, from, to string) ([]model.Payment, error) {
	return cached(p.cache, "fecha-"+from+"-"+to, func() ([]model.Payment, error) {
		q := url.Values{"fechaInicio": {from}, "fechaFin": {to}}
		var out []model.Payment
		err := p.c.do(ctx, "GET", "/pagos/fecha", q, nil, &out, "pagos")
		return out, err
	})
}

func (p *PaymentsClient) RevenueByDate(ctx context.Context, date string) (model.RevenueSummary, error) {
	return cached(p.cache, "ingresos-"+date, func() (model.RevenueSummary, error) {
		var out model.RevenueSummary
		err := p.c.do(ctx, "GET", "/pagos/ingresos/"+url.PathEscape(date), nil, nil, &out, "pagos")
		return out, err
	})
}

func (p *PaymentsClient) Create(ctx context.Context, req model.NewPayment) (model.Payment, error) {
	p.cache.invalidate()
	var out model.Payment
	err := p.c.do(ctx, "POST", "/pagos", nil, req, &out, "pagos")
	return out, err
}

func (p *PaymentsClient) Update(ctx context.Context, id int64, req model.Payment) (model.Payment, error) {
	p.cache.invalidate()
	var out model.Payment
	err := p.c.do(ctx, "PUT", fmt.Sprintf("/pagos/%d", id), nil, req, &out, "pagos")
	return out, err
}

func (p *PaymentsClient) UpdateStatus(ctx context.Context, id int64, status string) (model.Payment, error) {
	p.cache.invalidate()
	q := url.Values{"nuevoEstado": {status}}
	var out model.Payment
	err := p.c.do(ctx, "PUT", fmt.Sprintf("/pagos/%d/estado", id), q, nil, &out, "pagos")
	return out, err
}

func (p *PaymentsClient) UpdateMethod(ctx context.Context, id int64, method string) (model.Payment, error) {
	p.cache.invalidate()
	q := url.Values{"nuevoMetodo": {method}}
	var out model.Payment
	err := p.c.do(ctx, "PUT", fmt.Sprintf("/pagos/%d/metodo-pago", id), q, nil, &out, "pagos")
	return out, err
}

// Refund flips a PAGADO payment to REEMBOLSADO. The PAID-only precondition is
// enforced by the workflow layer before this call; a backend 400 propagates
// verbatim.
func (p *PaymentsClient) Refund(ctx context.Context, id int64) error {
	p.cache.invalidate()
	return p.c.do(ctx, "PUT", fmt.Sprintf("/pagos/%d/reembolsar", id), nil, nil, nil, "pagos")
}

func (p *PaymentsClient) Delete(ctx context.Context, id int64) error {
	p.cache.invalidate()
	return p.c.do(ctx, "DELETE", fmt.Sprintf("/pagos/%d", id), nil, nil, nil, "pagos")
}
