package api

import (
	"context"
	"net/http"

	"auctionmap/internal/models"
)

// ListUsers returns every account. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, call{
		op:        "list users",
		method:    http.MethodGet,
		path:      "/admin/users",
		protected: true,
		fallback:  MsgUsers,
	}, &users)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// RunBatch triggers the manual data collection batch and returns the
// backend's plain text result.
func (c *Client) RunBatch(ctx context.Context) (string, error) {
	var result string
	err := c.do(ctx, call{
		op:        "run batch",
		method:    http.MethodPost,
		path:      "/admin/batch/run",
		protected: true,
		fallback:  MsgBatch,
	}, &result)
	return result, err
}
