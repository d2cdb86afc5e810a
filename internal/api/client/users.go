package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"brewalgo_client/internal/domain/model"
)

func (c *Client) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/users/by-username/"+url.PathEscape(username), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
