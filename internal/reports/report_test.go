package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/salabelleza/agenda-console/internal/model"
)

func TestReport_Aggregates(t *testing.T) {
	corte := &model.ServiceSummary{Name: "Corte", Price: 30}
	tinte := &model.ServiceSummary{Name: "Tinte", Price: 80}
	f := &fakeSources{
		appointments: []model.Appointment{
			{ID: 1, Status: "ATENDIDA", Service: corte},
			{ID: 2, Status: "ATENDIDA", Service: corte},
			{ID: 3, Status: "PROGRAMADA", Service: tinte},
			{ID: 4, Status: "CANCELADA"},
		},
		payments: []model.Payment{{Amount: 30}, {Amount: 30}, {Amount: 80}},
	}

	r := newTestService(f, "2026-09-01").Report(context.Background())

	if r.Sample {
		t.Fatalf("live data must not be flagged as sample")
	}
	if r.TotalAppointments != 4 || r.Completed != 2 {
		t.Fatalf("totals = %d/%d", r.TotalAppointments, r.Completed)
	}
	if r.TotalRevenue != 140 {
		t.Fatalf("totalIngresos = %v", r.TotalRevenue)
	}
	if r.CompletionRate != 50 {
		t.Fatalf("tasaCompletacion = %d, want 50", r.CompletionRate)
	}
	if r.AverageRevenue != 35 {
		t.Fatalf("ingresoPromedioPorCita = %v, want 35", r.AverageRevenue)
	}

	if len(r.Services) != 3 {
		t.Fatalf("expected 3 service rows, got %+v", r.Services)
	}
	top := r.Services[0]
	if top.Name != "Corte" || top.Count != 2 || top.Revenue != 60 {
		t.Fatalf("unexpected top service %+v", top)
	}
}

func TestReport_MissingServiceUsesFallbackRow(t *testing.T) {
	f := &fakeSources{
		appointments: []model.Appointment{{ID: 1, Status: "ATENDIDA"}},
	}
	r := newTestService(f, "2026-09-01").Report(context.Background())

	if len(r.Services) != 1 {
		t.Fatalf("expected one row, got %+v", r.Services)
	}
	row := r.Services[0]
	if row.Name != "Sin servicio" || row.Revenue != fallbackServicePrice {
		t.Fatalf("unexpected fallback row %+v", row)
	}
}

func TestReport_EmptyDataHasNoRates(t *testing.T) {
	r := newTestService(&fakeSources{}, "2026-09-01").Report(context.Background())
	if r.CompletionRate != 0 || r.AverageRevenue != 0 {
		t.Fatalf("empty report must not divide by zero: %+v", r)
	}
}

func TestReport_FailedLegYieldsSample(t *testing.T) {
	f := &fakeSources{paymentsErr: errors.New("down")}
	r := newTestService(f, "2026-09-01").Report(context.Background())
	if !r.Sample {
		t.Fatalf("a failed leg must yield sample data")
	}
	if r.TotalAppointments != 55 || len(r.Services) != 3 {
		t.Fatalf("unexpected sample figures %+v", r)
	}
}
