package model

// User is a console account, as persisted alongside the session token.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"rol"`
	State    string `json:"estado"`
	Name     string `json:"nombre"`
	Email    string `json:"email"`
}
