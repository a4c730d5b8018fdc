package upstream

import (
	"context"
	"fmt"

	"github.com/salabelleza/agenda-console/internal/model"
)

// ClientsClient wraps /clientes.
type ClientsClient struct {
	c     *client
	cache *queryCache
}

func (cc *ClientsClient) All(ctx context.Context) ([]model.Client, error) {
	return cached(cc.cache, "all", func() ([]model.Client, error) {
		var out []model.Client
		err := cc.c.do(ctx, "GET", "/clientes", nil, nil, &out, "clientes")
		return out, err
	})
}

func (cc *ClientsClient) Active(ctx context.Context) ([]model.Client, error) {
	return cached(cc.cache, "activos", func() ([]model.Client, error) {
		var out []model.Client
		err := cc.c.do(ctx, "GET", "/clientes/activos", nil, nil, &out, "clientes")
		return out, err
	})
}

func (cc *ClientsClient) Inactive(ctx context.Context) ([]model.Client, error) {
	return cached(cc.cache, "inactivos", func() ([]model.Client, error) {
		var out []model.Client
		err := cc.c.do(ctx, "GET", "/clientes/inactivos", nil, nil, &out, "clientes")
		return out, err
	})
}

func (cc *ClientsClient) ByID(ctx context.Context, id int64) (model.Client, error) {
	return cached(cc.cache, fmt.Sprintf("id-%d", id), func() (model.Client, error) {
		var out model.Client
		err := cc.c.do(ctx, "GET", fmt.Sprintf("/clientes/%d", id), nil, nil, &out, "clientes")
		return out, err
	})
}

func (cc *ClientsClient) Create(ctx context.Context, cl model.Client) (model.Client, error) {
	cc.cache.invalidate()
	var out model.Client
	err := cc.c.do(ctx, "POST", "/clientes", nil, cl, &out, "clientes")
	return out, err
}

func (cc *ClientsClient) Update(ctx context.Context, id int64, cl model.Client) (model.Client, error) {
	cc.cache.invalidate()
	var out model.Client
	err := cc.c.do(ctx, "PUT", fmt.Sprintf("/clientes/%d", id), nil, cl, &out, "clientes")
	if err != nil && verbUnsupported(err) {
		err = cc.c.do(ctx, "PATCH", fmt.Sprintf("/clientes/%d", id), nil, cl, &out, "clientes")
	}
	return out, err
}

// Delete soft-deletes; the record stays restorable.
func (cc *ClientsClient) Delete(ctx context.Context, id int64) error {
	cc.cache.invalidate()
	return cc.c.do(ctx, "DELETE", fmt.Sprintf("/clientes/%d", id), nil, nil, nil, "clientes")
}

func (cc *ClientsClient) Restore(ctx context.Context, id int64) (model.Client, error) {
	cc.cache.invalidate()
	var out model.Client
	err := cc.c.do(ctx, "PUT", fmt.Sprintf("/clientes/%d/restaurar", id), nil, struct{}{}, &out, "clientes")
	if err != nil && verbUnsupported(err) {
		err = cc.c.do(ctx, "PUT", fmt.Sprintf("/clientes/%d", id), nil, stateChange{State: model.StateActive}, &out, "clientes")
	}
	return out, err
}
