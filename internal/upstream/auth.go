package upstream

import (
	"context"
	"errors"

	"github.com/salabelleza/agenda-console/internal/session"
)

// AuthClient talks to /auth/login. It is the only client that sends no
// bearer token.
type AuthClient struct {
	c *client
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var ErrNoToken = errors.New("login response carried no token")

func (a *AuthClient) Login(ctx context.Context, username, password string) (session.LoginResponse, error) {
	var res session.LoginResponse
	err := a.c.do(ctx, "POST", "/auth/login", nil, loginRequest{Username: username, Password: password}, &res, "auth")
	if err != nil {
		return session.LoginResponse{}, err
	}
	if res.Token == "" {
		return session.LoginResponse{}, ErrNoToken
	}
	return res, nil
}
