package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/salabelleza/agenda-console/internal/model"
)

// StaffClient wraps /personal. This resource carries the most verb fallbacks:
// older backend builds lack PUT, DELETE and the restore endpoint.
type StaffClient struct {
	c     *client
	cache *queryCache
}

// stateChange is the soft-delete/restore payload shared by the fallback
// paths of several resources.
type stateChange struct {
	State string `json:"estado"`
}

func (s *StaffClient) All(ctx context.Context) ([]model.Staff, error) {
	return cached(s.cache, "all", func() ([]model.Staff, error) {
		var out []model.Staff
		err := s.c.do(ctx, "GET", "/personal", nil, nil, &out, "personal")
		return out, err
	})
}

func (s *StaffClient) Active(ctx context.Context) ([]model.Staff, error) {
	return cached(s.cache, "activos", func() ([]model.Staff, error) {
		var out []model.Staff
		err := s.c.do(ctx, "GET", "/personal/activos", nil, nil, &out, "personal")
		return out, err
	})
}

func (s *StaffClient) Inactive(ctx context.Context) ([]model.Staff, error) {
	return cached(s.cache, "inactivos", func() ([]model.Staff, error) {
		var out []model.Staff
		err := s.c.do(ctx, "GET", "/personal/inactivos", nil, nil, &out, "personal")
		return out, err
	})
}

func (s *StaffClient) ByID(ctx context.Context, id int64) (model.Staff, error) {
	return cached(s.cache, fmt.Sprintf("id-%d", id), func() (model.Staff, error) {
		var out model.Staff
		err := s.c.do(ctx, "GET", fmt.Sprintf("/personal/%d", id), nil, nil, &out, "personal")
		return out, err
	})
}

func (s *StaffClient) BySpecialty(ctx context.Context, specialty string) ([]model.Staff, error) {
	return cached(s.cache, "especialidad-"+specialty, func() ([]model.Staff, error) {
		var out []model.Staff
		err := s.c.do(ctx, "GET", "/personal/especialidad/"+url.PathEscape(specialty), nil, nil, &out, "personal")
		return out, err
	})
}

// Available lists staff free at the given date and time, backend-side.
func (s *StaffClient) Available(ctx context.Context, date, timeOfDay string) ([]model.Staff, error) {
	return cached(s.cache, "disponible-"+date+"-"+timeOfDay, func() ([]model.Staff, error) {
		q := url.Values{"fecha": {date}, "hora": {timeOfDay}}
		var out []model.Staff
		err := s.c.do(ctx, "GET", "/personal/disponible", q, nil, &out, "personal")
		return out, err
	})
}

func (s *StaffClient) Search(ctx context.Context, term string) ([]model.Staff, error) {
	q := url.Values{"termino": {term}}
	var out []model.Staff
	err := s.c.do(ctx, "GET", "/personal/buscar", q, nil, &out, "personal")
	return out, err
}

func (s *StaffClient) Create(ctx context.Context, st model.Staff) (model.Staff, error) {
	s.cache.invalidate()
	var out model.Staff
	err := s.c.do(ctx, "POST", "/personal", nil, st, &out, "personal")
	return out, err
}

// Update prefers PUT and falls back to PATCH when the backend lacks the verb.
func (s *StaffClient) Update(ctx context.Context, id int64, st model.Staff) (model.Staff, error) {
	s.cache.invalidate()
	var out model.Staff
	err := s.c.do(ctx, "PUT", fmt.Sprintf("/personal/%d", id), nil, st, &out, "personal")
	if err != nil && verbUnsupported(err) {
		err = s.c.do(ctx, "PATCH", fmt.Sprintf("/personal/%d", id), nil, st, &out, "personal")
	}
	return out, err
}

// Delete is a soft delete. When DELETE is unsupported the record is flipped
// to INACTIVO instead, which is what the backend does internally anyway.
func (s *StaffClient) Delete(ctx context.Context, id int64) error {
	s.cache.invalidate()
	err := s.c.do(ctx, "DELETE", fmt.Sprintf("/personal/%d", id), nil, nil, nil, "personal")
	if err != nil && verbUnsupported(err) {
		return s.c.do(ctx, "PUT", fmt.Sprintf("/personal/%d", id), nil, stateChange{State: model.StateInactive}, nil, "personal")
	}
	return err
}

// Restore reverses a soft delete via the dedicated endpoint, with an
// estado-flip fallback for builds that predate it.
func (s *StaffClient) Restore(ctx context.Context, id int64) (model.Staff, error) {
	s.cache.invalidate()
	var out model.Staff
	err := s.c.do(ctx, "PUT", fmt.Sprintf("/personal/%d/restaurar", id), nil, struct{}{}, &out, "personal")
	if err != nil && verbUnsupported(err) {
		err = s.c.do(ctx, "PUT", fmt.Sprintf("/personal/%d", id), nil, stateChange{State: model.StateActive}, &out, "personal")
	}
	return out, err
}
