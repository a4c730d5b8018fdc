package upstream

import (
	"context"
	"fmt"

	"github.com/salabelleza/agenda-console/internal/model"
)

// UsersClient wraps /usuarios. User administration is rare enough that these
// reads skip the cache entirely.
type UsersClient struct {
	c *client
}

func (u *UsersClient) All(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := u.c.do(ctx, "GET", "/usuarios", nil, nil, &out, "usuarios")
	return out, err
}

func (u *UsersClient) ByID(ctx context.Context, id int64) (model.User, error) {
	var out model.User
	err := u.c.do(ctx, "GET", fmt.Sprintf("/usuarios/%d", id), nil, nil, &out, "usuarios")
	return out, err
}

func (u *UsersClient) Create(ctx context.Context, usr model.User) (model.User, error) {
	var out model.User
	err := u.c.do(ctx, "POST", "/usuarios", nil, usr, &out, "usuarios")
	return out, err
}

func (u *UsersClient) Update(ctx context.Context, id int64, usr model.User) (model.User, error) {
	var out model.User
	err := u.c.do(ctx, "PUT", fmt.Sprintf("/usuarios/%d", id), nil, usr, &out, "usuarios")
	return out, err
}

func (u *UsersClient) Delete(ctx context.Context, id int64) error {
	return u.c.do(ctx, "DELETE", fmt.Sprintf("/usuarios/%d", id), nil, nil, nil, "usuarios")
}

// ToggleActive flips the account's ACTIVO/INACTIVO flag.
func (u *UsersClient) ToggleActive(ctx context.Context, id int64) (model.User, error) {
	var out model.User
	err := u.c.do(ctx, "PATCH", fmt.Sprintf("/usuarios/%d/toggle-activo", id), nil, struct{}{}, &out, "usuarios")
	return out, err
}
