package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"brewalgo_client/internal/domain/model"
)

func (c *Client) ListProblems(ctx context.Context) ([]model.Problem, error) {
	var out []model.Problem
	if err := c.do(ctx, http.MethodGet, "/problems", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProblem(ctx context.Context, id int64) (*model.Problem, error) {
	var p model.Problem
	if err := c.do(ctx, http.MethodGet, "/problems/"+strconv.FormatInt(id, 10), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetProblemBySlug(ctx context.Context, slug string) (*model.Problem, error) {
	var p model.Problem
	if err := c.do(ctx, http.MethodGet, "/problems/slug/"+url.PathEscape(slug), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListProblemsByDifficulty(ctx context.Context, d model.Difficulty) ([]model.Problem, error) {
	var out []model.Problem
	if err := c.do(ctx, http.MethodGet, "/problems/difficulty/"+url.PathEscape(string(d)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
