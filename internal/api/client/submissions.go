package client

import (
	"context"
	"fmt"
	"net/http"

	"brewalgo_client/internal/domain/model"
)

// Submit posts one attempt and returns the judged response as sent. Either
// sub-resource may be nil. Judging can take long, so only ctx bounds the
// call.
func (c *Client) Submit(ctx context.Context, req model.SubmitRequest) (*model.SubmitResponse, error) {
	var out model.SubmitResponse
	if err := c.send(ctx, http.MethodPost, "/submissions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUserProblemSubmissions(ctx context.Context, userID, problemID int64) ([]model.SubmissionRecord, error) {
	var out []model.SubmissionRecord
	path := fmt.Sprintf("/submissions/user/%d/problem/%d", userID, problemID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HasSolved reports whether any prior submission for the problem was
// accepted.
func (c *Client) HasSolved(ctx context.Context, userID, problemID int64) (bool, error) {
	subs, err := c.ListUserProblemSubmissions(ctx, userID, problemID)
	if err != nil {
		return false, err
	}
	for _, s := range subs {
		if s.Status != nil && *s.Status == model.StatusAccepted {
			return true, nil
		}
	}
	return false, nil
}
