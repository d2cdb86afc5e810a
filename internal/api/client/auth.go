package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"
)

func (c *Client) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", req, "Invalid username or password")
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", req, "Registration failed")
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}, fallback string) (*model.AuthResponse, error) {
	var out model.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, asAuthError(err, fallback)
	}
	if out.Token == "" || out.User == nil {
		return nil, fmt.Errorf("POST %s: token or user missing: %w", path, common.ErrMalformedResponse)
	}
	return &out, nil
}

// asAuthError turns a backend refusal into an AuthError carrying the
// server's message. Other failures pass through untouched.
func asAuthError(err error, fallback string) error {
	var tErr *common.TransportError
	if !errors.As(err, &tErr) {
		return err
	}
	switch tErr.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict:
		msg := tErr.Message
		if msg == "" {
			msg = fallback
		}
		return &common.AuthError{StatusCode: tErr.StatusCode, Message: msg}
	}
	return err
}
