package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client sends requests to a roster-server.
type Client struct {
	base string
	hc   *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimSuffix(base, "/"),
		hc:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &reqBody)
	if err != nil {
		return err
	} else if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var errRes ErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&errRes); err != nil || errRes.Error == "" {
			return fmt.Errorf("server returned status %v", res.StatusCode)
		}
		return fmt.Errorf("server returned status %v: %v", res.StatusCode, errRes.Error)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) Meta(ctx context.Context) (*MetaResponse, error) {
	var out MetaResponse
	if err := c.do(ctx, http.MethodGet, "/v1/meta", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Checkpoint(ctx context.Context) (*CheckpointResponse, error) {
	var out CheckpointResponse
	if err := c.do(ctx, http.MethodGet, "/v1/checkpoint", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Admit asks the server to admit `e`. It returns true if `e` was already
// pending admission.
func (c *Client) Admit(ctx context.Context, e *Entry) (bool, error) {
	var out AdmitResponse
	if err := c.do(ctx, http.MethodPost, "/v1/admit", e, &out); err != nil {
		return false, err
	}
	return out.Existed, nil
}

// Publish asks the server to commit all pending admissions immediately.
func (c *Client) Publish(ctx context.Context) (*CheckpointResponse, error) {
	var out CheckpointResponse
	if err := c.do(ctx, http.MethodPost, "/v1/publish", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) IsMember(ctx context.Context, e *Entry) (*MemberResponse, error) {
	var out MemberResponse
	if err := c.do(ctx, http.MethodPost, "/v1/member", e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
