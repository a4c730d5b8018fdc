package upstream

import (
	"context"
	"fmt"

	"github.com/salabelleza/agenda-console/internal/model"
)

// StatusesClient wraps the /estados catalog. It is small and changes almost
// never, so reads are uncached.
type StatusesClient struct {
	c *client
}

func (s *StatusesClient) All(ctx context.Context) ([]model.Status, error) {
	var out []model.Status
	err := s.c.do(ctx, "GET", "/estados", nil, nil, &out, "estados")
	return out, err
}

func (s *StatusesClient) ByID(ctx context.Context, id int64) (model.Status, error) {
	var out model.Status
	err := s.c.do(ctx, "GET", fmt.Sprintf("/estados/%d", id), nil, nil, &out, "estados")
	return out, err
}
