package consolehttp

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salabelleza/agenda-console/internal/availability"
	"github.com/salabelleza/agenda-console/internal/model"
	"github.com/salabelleza/agenda-console/internal/reports"
	"github.com/salabelleza/agenda-console/internal/session"
	"github.com/salabelleza/agenda-console/internal/upstream"
	"github.com/salabelleza/agenda-console/internal/workflow"
)

// consoleFixture stands up the full console against a scripted backend.
type consoleFixture struct {
	console *httptest.Server
	backend *backendStub
	session *session.Store
}

type backendStub struct {
	mux      *http.ServeMux
	requests []string
}

func (b *backendStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
	b.mux.ServeHTTP(w, r)
}

// requireMethod stands in for Go 1.22 "METHOD /path" ServeMux patterns,
// which the local toolchain does not support.
func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func newFixture(t *testing.T) *consoleFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	stub := &backendStub{mux: http.NewServeMux()}
	backendSrv := httptest.NewServer(stub)
	t.Cleanup(backendSrv.Close)

	sess, err := session.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Close() })

	api, err := upstream.New(upstream.Options{BaseURL: backendSrv.URL, Tokens: sess})
	require.NoError(t, err)

	wf := workflow.New(api.Appointments, api.Payments, logger)
	backendURL, err := url.Parse(backendSrv.URL)
	require.NoError(t, err)

	router := NewRouter(Handlers{
		Auth:      NewAuthHandler(api.Auth, sess, logger),
		Agenda:    NewAgendaHandler(api.Appointments, api.Services, availability.NewChecker(api.Appointments), wf, logger),
		Payments:  NewPaymentsHandler(api.Payments, wf, logger),
		Resources: NewResourcesHandler(api, logger),
		Views:     NewViewsHandler(reports.NewService(api.Appointments, api.Clients, api.Payments, logger)),
		Proxy:     NewProxy(backendURL, "/api/v1", sess, logger),
	})
	consoleSrv := httptest.NewServer(router)
	t.Cleanup(consoleSrv.Close)

	return &consoleFixture{console: consoleSrv, backend: stub, session: sess}
}

func (f *consoleFixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.console.URL+path, payload)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func (f *consoleFixture) login(t *testing.T, role string) {
	t.Helper()
	require.NoError(t, f.session.Set("tok-test", model.User{ID: 1, Username: "ana", Role: role}))
}

func TestRouter_RejectsWithoutSession(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/v1/citas", "/api/v1/dashboard", "/api/v1/auth/session"} {
		res := f.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusUnauthorized, res.StatusCode, path)
	}
	require.Empty(t, f.backend.requests, "nothing may reach the backend without a session")
}

func TestRouter_LoginPersistsSession(t *testing.T) {
	f := newFixture(t)
	f.backend.mux.HandleFunc("/auth/login", requireMethod("POST", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-xyz", "id": 7, "username": "ana", "role": "ADMIN",
		})
	}))

	res := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "ana", "password": "secret"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var user model.User
	require.NoError(t, json.NewDecoder(res.Body).Decode(&user))
	require.Equal(t, "ana", user.Username)
	require.Equal(t, "ADMIN", user.Role)

	require.Equal(t, "tok-xyz", f.session.Token())

	res = f.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRouter_LoginRejectsMissingCredentials(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": " ", "password": ""})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Empty(t, f.backend.requests)
}

func TestRouter_BadCredentialsPassThrough(t *testing.T) {
	f := newFixture(t)
	f.backend.mux.HandleFunc("/auth/login", requireMethod("POST", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "credenciales invalidas"})
	}))

	res := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "ana", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.False(t, f.session.IsLoggedIn())
}

func TestRouter_LogoutClearsSession(t *testing.T) {
	f := newFixture(t)
	f.login(t, "ADMIN")

	res := f.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.False(t, f.session.IsLoggedIn())
}

func TestRouter_AvailabilityEndpoint(t *testing.T) {
	f := newFixture(t)
	f.login(t, "RECEPCION")
	f.backend.mux.HandleFunc("/citas/personal/7", requireMethod("GET", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]model.Appointment{
			{ID: 1, Status: model.AppointmentScheduled, Date: "2026-09-01", StartTime: "09:00", EndTime: "09:30"},
		})
	}))

	res := f.do(t, http.MethodGet, "/api/v1/citas/disponibilidad?personalId=7&fecha=2026-09-01&hora=09:15", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Determined bool   `json:"verificado"`
		Conflict   bool   `json:"conflicto"`
		Message    string `json:"mensaje"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.True(t, body.Determined)
	require.True(t, body.Conflict)
	require.Contains(t, body.Message, "09:00")
}

func TestRouter_TransitionDrivesWorkflow(t *testing.T) {
	f := newFixture(t)
	f.login(t, "RECEPCION")
	f.backend.mux.HandleFunc("/citas/3", requireMethod("GET", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(model.Appointment{
			ID: 3, Status: model.AppointmentScheduled,
			Service: &model.ServiceSummary{Name: "Corte", Price: 50},
		})
	}))
	f.backend.mux.HandleFunc("/citas/3/estado", requireMethod("PUT", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, model.AppointmentAttended, r.URL.Query().Get("nuevoEstado"))
		_ = json.NewEncoder(w).Encode(model.Appointment{ID: 3, Status: model.AppointmentAttended})
	}))
	var createdPayment model.NewPayment
	f.backend.mux.HandleFunc("/pagos", requireMethod("POST", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&createdPayment))
		_ = json.NewEncoder(w).Encode(model.Payment{ID: 9, Amount: createdPayment.Amount, Status: model.PaymentPending})
	}))

	res := f.do(t, http.MethodPut, "/api/v1/citas/3/estado", map[string]string{"nuevoEstado": model.AppointmentAttended})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Appointment model.Appointment `json:"cita"`
		Payment     *model.Payment    `json:"pago"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.Equal(t, model.AppointmentAttended, body.Appointment.Status)
	require.NotNil(t, body.Payment)
	require.Equal(t, float64(50), createdPayment.Amount)
	require.Equal(t, model.PaymentMethodCash, createdPayment.Method)
}

func TestRouter_RefundRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	f.login(t, "RECEPCION")

	res := f.do(t, http.MethodPut, "/api/v1/pagos/12/reembolsar", nil)
	require.Equal(t, http.StatusForbidden, res.StatusCode)
	require.Empty(t, f.backend.requests)
}

func TestRouter_RefundGuardAnswersConflict(t *testing.T) {
	f := newFixture(t)
	f.login(t, "ADMIN")
	f.backend.mux.HandleFunc("/pagos/12", requireMethod("GET", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(model.Payment{ID: 12, Status: model.PaymentPending})
	}))

	res := f.do(t, http.MethodPut, "/api/v1/pagos/12/reembolsar", nil)
	require.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestRouter_DashboardSurvivesBackendOutage(t *testing.T) {
	f := newFixture(t)
	f.login(t, "ADMIN")
	// No backend routes registered: every fetch 404s and the batch fails.

	res := f.do(t, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var d reports.Dashboard
	require.NoError(t, json.NewDecoder(res.Body).Decode(&d))
	require.True(t, d.Sample)
	require.Equal(t, 8, d.AppointmentsToday)
}

func TestRouter_ProxyPassesThroughWithBearer(t *testing.T) {
	f := newFixture(t)
	f.login(t, "ADMIN")

	var gotAuth string
	f.backend.mux.HandleFunc("/pagos", requireMethod("GET", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]model.Payment{{ID: 1, Status: model.PaymentPending}})
	}))

	// No console route handles a plain payments listing; it must fall
	// through to the proxy.
	res := f.do(t, http.MethodGet, "/api/v1/pagos", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "Bearer tok-test", gotAuth)
}

func TestRouter_UserToggleRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	f.login(t, "RECEPCION")

	res := f.do(t, http.MethodPatch, "/api/v1/usuarios/3/toggle-activo", nil)
	require.Equal(t, http.StatusForbidden, res.StatusCode)

	f.login(t, "ADMIN")
	f.backend.mux.HandleFunc("/usuarios/3/toggle-activo", requireMethod("PATCH", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(model.User{ID: 3, State: model.StateInactive})
	}))
	res = f.do(t, http.MethodPatch, "/api/v1/usuarios/3/toggle-activo", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRouter_HealthEndpoints(t *testing.T) {
	f := newFixture(t)

	res := f.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = f.do(t, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
}
