package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/salabelleza/agenda-console/internal/model"
)

// ServicesClient wraps /servicios.
type ServicesClient struct {
	c     *client
	cache *queryCache
}

func (sc *ServicesClient) All(ctx context.Context) ([]model.Service, error) {
	return cached(sc.cache, "all", func() ([]model.Service, error) {
		var out []model.Service
		err := sc.c.do(ctx, "GET", "/servicios", nil, nil, &out, "servicios")
		return out, err
	})
}

// Everything lists services regardless of state, including soft-deleted ones.
func (sc *ServicesClient) Everything(ctx context.Context) ([]model.Service, error) {
	return cached(sc.cache, "todos", func() ([]model.Service, error) {
		var out []model.Service
		err := sc.c.do(ctx, "GET", "/servicios/todos", nil, nil, &out, "servicios")
		return out, err
	})
}

func (sc *ServicesClient) Active(ctx context.Context) ([]model.Service, error) {
	return cached(sc.cache, "activos", func() ([]model.Service, error) {
		var out []model.Service
		err := sc.c.do(ctx, "GET", "/servicios/activos", nil, nil, &out, "servicios")
		return out, err
	})
}

func (sc *ServicesClient) Inactive(ctx context.Context) ([]model.Service, error) {
	return cached(sc.cache, "inactivos", func() ([]model.Service, error) {
		var out []model.Service
		err := sc.c.do(ctx, "GET", "/servicios/inactivos", nil, nil, &out, "servicios")
		return out, err
	})
}

func (sc *ServicesClient) ByID(ctx context.Context, id int64) (model.Service, error) {
	return cached(sc.cache, fmt.Sprintf("id-%d", id), func() (model.Service, error) {
		var out model.Service
		err := sc.c.do(ctx, "GET", fmt.Sprintf("/servicios/%d", id), nil, nil, &out, "servicios")
		return out, err
	})
}

func (sc *ServicesClient) Search(ctx context.Context, term string) ([]model.Service, error) {
	q := url.Values{"termino": {term}}
	var out []model.Service
	err := sc.c.do(ctx, "GET", "/servicios/buscar", q, nil, &out, "servicios")
	return out, err
}

func (sc *ServicesClient) Create(ctx context.Context, svc model.Service) (model.Service, error) {
	sc.cache.invalidate()
	var out model.Service
	err := sc.c.do(ctx, "POST", "/servicios", nil, svc, &out, "servicios")
	return out, err
}

func (sc *ServicesClient) Update(ctx context.Context, id int64, svc model.Service) (model.Service, error) {
	sc.cache.invalidate()
	var out model.Service
	err := sc.c.do(ctx, "PUT", fmt.Sprintf("/servicios/%d", id), nil, svc, &out, "servicios")
	if err != nil && verbUnsupported(err) {
		err = sc.c.do(ctx, "PATCH", fmt.Sprintf("/servicios/%d", id), nil, svc, &out, "servicios")
	}
	return out, err
}

func (sc *ServicesClient) Delete(ctx context.Context, id int64) error {
	sc.cache.invalidate()
	return sc.c.do(ctx, "DELETE", fmt.Sprintf("/servicios/%d", id), nil, nil, nil, "servicios")
}

func (sc *ServicesClient) Restore(ctx context.Context, id int64) (model.Service, error) {
	sc.cache.invalidate()
	var out model.Service
	err := sc.c.do(ctx, "PUT", fmt.Sprintf("/servicios/%d/restaurar", id), nil, struct{}{}, &out, "servicios")
	if err != nil && verbUnsupported(err) {
		err = sc.c.do(ctx, "PUT", fmt.Sprintf("/servicios/%d", id), nil, stateChange{State: model.StateActive}, &out, "servicios")
	}
	return out, err
}
