// Package reports aggregates backend collections into the console's
// dashboard and summary views. Reads fan out concurrently and are
// all-or-nothing: if any leg fails the view falls back to placeholder data
// instead of rendering a blocked empty screen.
package reports

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/salabelleza/agenda-console/internal/model"
)

type AppointmentSource interface {
	All(ctx context.Context) ([]model.Appointment, error)
}

type ClientSource interface {
	Active(ctx context.Context) ([]model.Client, error)
}

type PaymentSource interface {
	All(ctx context.Context) ([]model.Payment, error)
}

type Service struct {
	appointments AppointmentSource
	clients      ClientSource
	payments     PaymentSource
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(appointments AppointmentSource, clients ClientSource, payments PaymentSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		appointments: appointments,
		clients:      clients,
		payments:     payments,
		logger:       logger,
		now:          time.Now,
	}
}

type Dashboard struct {
	Date              string              `json:"fecha"`
	AppointmentsToday int                 `json:"citasHoy"`
	Attended          int                 `json:"citasAtendidas"`
	Pending           int                 `json:"citasPendientes"`
	Cancelled         int                 `json:"citasCanceladas"`
	ActiveClients     int                 `json:"totalClientes"`
	RevenueToday      float64             `json:"ingresosHoy"`
	Recent            []model.Appointment `json:"citasRecientes"`
	Today             []model.Appointment `json:"citasDeHoy"`
	Sample            bool                `json:"datosDeEjemplo"`
}

// Dashboard fetches the three collections concurrently and derives the
// headline stats. Any failed leg fails the whole batch and yields the sample
// dashboard.
func (s *Service) Dashboard(ctx context.Context) Dashboard {
	var (
		appointments []model.Appointment
		clients      []model.Client
		payments     []model.Payment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appointments, err = s.appointments.All(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		clients, err = s.clients.Active(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		payments, err = s.payments.All(gctx)
		return err
	})

	today := s.now().Format("2006-01-02")
	if err := g.Wait(); err != nil {
		s.logger.Warn("dashboard fetch failed, serving sample data", "err", err)
		return sampleDashboard(today)
	}
	return buildDashboard(appointments, clients, payments, today)
}

func buildDashboard(appointments []model.Appointment, clients []model.Client, payments []model.Payment, today string) Dashboard {
	d := Dashboard{Date: today, ActiveClients: len(clients)}

	for _, appt := range appointments {
		if dateOnly(appt.Date) == today {
			d.AppointmentsToday++
		}
		switch {
		case isAttendedStatus(appt.Status):
			d.Attended++
		case isPendingStatus(appt.Status):
			d.Pending++
		case isCancelledStatus(appt.Status):
			d.Cancelled++
		}
	}

	for _, p := range payments {
		if dateOnly(p.Date) == today {
			d.RevenueToday += p.Amount
		}
	}

	d.Recent = recentAppointments(appointments, 5)
	d.Today = todaysAppointments(appointments, today)
	return d
}

// Status matching is deliberately loose: backend deployments have shipped
// several spellings for each bucket.
func isAttendedStatus(status string) bool {
	return containsAny(status, "atendida", "completada", "finalizada")
}

func isPendingStatus(status string) bool {
	return containsAny(status, "pendiente", "programada", "confirmada", "agendada")
}

func isCancelledStatus(status string) bool {
	return containsAny(status, "cancelada", "anulada")
}

func containsAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// dateOnly strips a time suffix from timestamps like "2024-01-10T09:00:00".
func dateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

func recentAppointments(appointments []model.Appointment, n int) []model.Appointment {
	sorted := make([]model.Appointment, len(appointments))
	copy(sorted, appointments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sortKey(sorted[i]) > sortKey(sorted[j])
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func sortKey(appt model.Appointment) string {
	if appt.CreatedAt != "" {
		return appt.CreatedAt
	}
	return appt.Date
}

func todaysAppointments(appointments []model.Appointment, today string) []model.Appointment {
	var out []model.Appointment
	for _, appt := range appointments {
		if dateOnly(appt.Date) == today {
			out = append(out, appt)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// sampleDashboard keeps the view alive when the backend is down.
func sampleDashboard(today string) Dashboard {
	return Dashboard{
		Date:              today,
		AppointmentsToday: 8,
		Attended:          5,
		Pending:           3,
		Cancelled:         0,
		ActiveClients:     45,
		RevenueToday:      2500,
		Sample:            true,
	}
}
