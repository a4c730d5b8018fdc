package session

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/salabelleza/agenda-console/internal/model"
)

// LoginResponse is what /auth/login returns. The backend has shipped several
// shapes over time, so all fields are optional except the token.
type LoginResponse struct {
	Token    string      `json:"token"`
	Type     string      `json:"type,omitempty"`
	ID       int64       `json:"id,omitempty"`
	Username string      `json:"username,omitempty"`
	Role     string      `json:"role,omitempty"`
	User     *model.User `json:"usuario,omitempty"`
}

// DeriveUser builds the profile to persist alongside the token. Response
// fields win; gaps are filled from the token's claims, then from the username
// the operator typed.
func DeriveUser(res LoginResponse, username string) model.User {
	if res.User != nil {
		return *res.User
	}

	u := model.User{
		ID:       res.ID,
		Username: res.Username,
		Role:     res.Role,
		State:    model.StateActive,
		Name:     res.Username,
		Email:    res.Username,
	}

	if inferred, ok := InferUserFromToken(res.Token); ok {
		if u.ID == 0 {
			u.ID = inferred.ID
		}
		if u.Username == "" {
			u.Username = inferred.Username
		}
		if u.Role == "" {
			u.Role = inferred.Role
		}
		if u.Name == "" {
			u.Name = inferred.Name
		}
		if u.Email == "" {
			u.Email = inferred.Email
		}
	}

	if u.Username == "" {
		u.Username = username
	}
	if u.Name == "" {
		u.Name = u.Username
	}
	if u.Email == "" {
		u.Email = u.Username
	}
	return u
}

// InferUserFromToken decodes the JWT payload without verifying the signature.
// The console never trusts these claims for authorization; they only fill in
// display fields the login response omitted. Verification is the backend's
// job on every request that carries the token.
func InferUserFromToken(token string) (model.User, bool) {
	if token == "" {
		return model.User{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return model.User{}, false
	}

	role := firstString(claims, "rol", "role")
	if role == "" {
		role = firstListHead(claims, "authorities", "roles")
	}

	email := firstString(claims, "correo", "sub")
	if email == "" && role == "" {
		return model.User{}, false
	}

	return model.User{
		ID:       claimInt64(claims, "id"),
		Username: email,
		Role:     role,
		State:    model.StateActive,
		Name:     email,
		Email:    email,
	}, true
}

func firstString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func firstListHead(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		list, ok := claims[k].([]any)
		if !ok || len(list) == 0 {
			continue
		}
		if v, ok := list[0].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func claimInt64(claims jwt.MapClaims, key string) int64 {
	switch v := claims[key].(type) {
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}
