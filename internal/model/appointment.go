package model

// Appointment statuses as the backend spells them.
const (
	AppointmentScheduled = "PROGRAMADA"
	AppointmentAttended  = "ATENDIDA"
	AppointmentCancelled = "CANCELADA"
)

// Appointment is a scheduled service encounter between a client and a staff
// member. Dates are YYYY-MM-DD and times HH:MM, exactly as the backend sends
// them; all authority over the record lives server-side.
type Appointment struct {
	ID           int64  `json:"id"`
	Status       string `json:"estado"`
	Date         string `json:"fecha"`
	StartTime    string `json:"horaInicio"`
	EndTime      string `json:"horaFin"`
	Notes        string `json:"observaciones,omitempty"`
	CreatedAt    string `json:"fechaCreacion,omitempty"`
	ClientID     int64  `json:"clienteId,omitempty"`
	StaffID      int64  `json:"personalId,omitempty"`
	ServiceID    int64  `json:"servicioId,omitempty"`

	// Embedded summaries, present when the backend expands relations.
	Client  *ClientSummary  `json:"cliente,omitempty"`
	Staff   *StaffSummary   `json:"personal,omitempty"`
	Service *ServiceSummary `json:"servicio,omitempty"`
}

type ClientSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"nombres"`
	LastName  string `json:"apellidos"`
	Document  string `json:"documento"`
	Phone     string `json:"telefono,omitempty"`
	Email     string `json:"email,omitempty"`
}

type StaffSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"nombres"`
	LastName  string `json:"apellidos"`
	Specialty string `json:"especialidad,omitempty"`
}

type ServiceSummary struct {
	ID              int64   `json:"id"`
	Name            string  `json:"nombre"`
	DurationMinutes int     `json:"duracionMinutos"`
	Price           float64 `json:"precio"`
}

// NewAppointment is the creation payload. EndTime is derived client-side from
// StartTime plus the service duration before submission.
type NewAppointment struct {
	ClientID  int64  `json:"clienteId"`
	StaffID   int64  `json:"personalId"`
	ServiceID int64  `json:"servicioId"`
	Date      string `json:"fecha"`
	StartTime string `json:"horaInicio"`
	EndTime   string `json:"horaFin"`
	Notes     string `json:"observaciones"`
	Status    string `json:"estado"`
}
