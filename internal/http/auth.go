package consolehttp

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/salabelleza/agenda-console/internal/session"
	"github.com/salabelleza/agenda-console/internal/upstream"
)

// AuthHandler owns login/logout and the session view. State lives in the
// session store; the backend only sees the login call.
type AuthHandler struct {
	auth    *upstream.AuthClient
	session *session.Store
	logger  *slog.Logger
}

func NewAuthHandler(auth *upstream.AuthClient, sess *session.Store, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, session: sess, logger: logger}
}

type loginBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}
	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "username and password are required"})
		return
	}

	res, err := h.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user := session.DeriveUser(res, body.Username)
	if err := h.session.Set(res.Token, user); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.logger.Info("operator logged in", "username", user.Username, "role", user.Role)
	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Clear(); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user, ok := h.session.User()
	if !ok || !h.session.IsLoggedIn() {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// RequireSession gates everything except login behind a persisted session.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.session.IsLoggedIn() {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole additionally demands one of the given roles.
func (h *AuthHandler) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, role := range roles {
				if h.session.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "insufficient role"})
		})
	}
}
