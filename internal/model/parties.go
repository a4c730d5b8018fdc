package model

// Active/inactive flag shared by soft-deletable entities.
const (
	StateActive   = "ACTIVO"
	StateInactive = "INACTIVO"
)

// Client is a salon customer. Soft-deleted via the estado flag, restorable.
type Client struct {
	ID        int64  `json:"id"`
	FirstName string `json:"nombres"`
	LastName  string `json:"apellidos"`
	Document  string `json:"documento"`
	Phone     string `json:"telefono"`
	Email     string `json:"email,omitempty"`
	State     string `json:"estado"`
}

// Staff is a salon employee offering services.
type Staff struct {
	ID        int64  `json:"id"`
	FirstName string `json:"nombres"`
	LastName  string `json:"apellidos"`
	Specialty string `json:"especialidad"`
	Phone     string `json:"telefono"`
	State     string `json:"estado"`
}

// Service is a bookable offering with a fixed duration and price.
type Service struct {
	ID              int64   `json:"id"`
	Name            string  `json:"nombre"`
	DurationMinutes int     `json:"duracionMinutos"`
	Price           float64 `json:"precio"`
	State           string  `json:"estado"`
}

// Status is a row of the backend's estados catalog.
type Status struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}
