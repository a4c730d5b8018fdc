package reports

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/salabelleza/agenda-console/internal/model"
)

// fallbackServicePrice stands in when an appointment carries no expanded
// service; it matches what the legacy console displayed.
const fallbackServicePrice = 50

type Report struct {
	TotalAppointments int              `json:"totalCitas"`
	TotalRevenue      float64          `json:"totalIngresos"`
	Completed         int              `json:"citasCompletadas"`
	CompletionRate    int              `json:"tasaCompletacion"` // percent
	AverageRevenue    float64          `json:"ingresoPromedioPorCita"`
	Services          []ServiceSummary `json:"serviciosMasSolicitados"`
	Sample            bool             `json:"datosDeEjemplo"`
}

type ServiceSummary struct {
	Name    string  `json:"nombre"`
	Count   int     `json:"cantidad"`
	Revenue float64 `json:"ingresos"`
}

// Report aggregates appointments and payments into the business summary
// view. Same all-or-nothing batch semantics as the dashboard.
func (s *Service) Report(ctx context.Context) Report {
	var (
		appointments []model.Appointment
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
		payments, err = s.payments.All(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("report fetch failed, serving sample data", "err", err)
		return sampleReport()
	}
	return buildReport(appointments, payments)
}

func buildReport(appointments []model.Appointment, payments []model.Payment) Report {
	r := Report{TotalAppointments: len(appointments)}

	for _, p := range payments {
		r.TotalRevenue += p.Amount
	}
	for _, appt := range appointments {
		if isAttendedStatus(appt.Status) {
			r.Completed++
		}
	}
	if r.TotalAppointments > 0 {
		r.CompletionRate = int(float64(r.Completed)/float64(r.TotalAppointments)*100 + 0.5)
		r.AverageRevenue = r.TotalRevenue / float64(r.TotalAppointments)
	}
	r.Services = serviceBreakdown(appointments)
	return r
}

func serviceBreakdown(appointments []model.Appointment) []ServiceSummary {
	byName := map[string]*ServiceSummary{}
	for _, appt := range appointments {
		name := "Sin servicio"
		price := float64(fallbackServicePrice)
		if appt.Service != nil {
			name = appt.Service.Name
			price = appt.Service.Price
		}
		row := byName[name]
		if row == nil {
			row = &ServiceSummary{Name: name}
			byName[name] = row
		}
		row.Count++
		row.Revenue += price
	}

	out := make([]ServiceSummary, 0, len(byName))
	for _, row := range byName {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func sampleReport() Report {
	return Report{
		TotalAppointments: 55,
		TotalRevenue:      3290,
		Completed:         25,
		CompletionRate:    45,
		AverageRevenue:    59.8,
		Services: []ServiceSummary{
			{Name: "Consulta General", Count: 25, Revenue: 1250},
			{Name: "Terapia Física", Count: 18, Revenue: 1080},
			{Name: "Consulta Especializada", Count: 12, Revenue: 960},
		},
		Sample: true,
	}
}
