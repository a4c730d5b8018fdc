package model

// Payment statuses and the default method used for auto-created payments.
const (
	PaymentPending  = "PENDIENTE"
	PaymentPaid     = "PAGADO"
	PaymentRefunded = "REEMBOLSADO"

	PaymentMethodCash = "EFECTIVO"
)

// Payment is a charge originating from an appointment. The backend
// denormalizes client and service display names into the embedded summary.
type Payment struct {
	ID     int64   `json:"id"`
	Amount float64 `json:"monto"`
	Method string  `json:"metodoPago"`
	Status string  `json:"estado"`
	Date   string  `json:"fechaPago"`
	Notes  string  `json:"observaciones,omitempty"`

	Appointment PaymentAppointment `json:"cita"`
}

type PaymentAppointment struct {
	ID          int64  `json:"id"`
	ClientName  string `json:"clienteNombre"`
	ServiceName string `json:"servicioNombre"`
	Status      string `json:"estado"`
}

// NewPayment is the creation payload. Status is left to the backend, which
// assigns PENDIENTE.
type NewPayment struct {
	AppointmentID int64   `json:"citaId"`
	Amount        float64 `json:"monto"`
	Method        string  `json:"metodoPago"`
}

// RevenueSummary is the response of /pagos/ingresos/{fecha}.
type RevenueSummary struct {
	Total float64 `json:"total"`
	Count int     `json:"cantidad"`
}
