package api

import (
	"context"
	"net/http"

	"auctionmap/internal/models"
)

// Register creates an account. The response carries an access token only
// when the backend logs the user in at sign-up.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	var resp models.RegisterResponse
	err := c.do(ctx, call{
		op:       "register",
		method:   http.MethodPost,
		path:     "/auth/register",
		body:     req,
		fallback: MsgRegister,
	}, &resp)
	return resp, err
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.TokenResponse, error) {
	var resp models.TokenResponse
	err := c.do(ctx, call{
		op:       "login",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     req,
		fallback: MsgLogin,
	}, &resp)
	return resp, err
}
