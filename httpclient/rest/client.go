package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"github.com/kbukum/compapol/httpclient"
)

// Client speaks JSON in both directions.
type Client struct {
	http *httpclient.Client
}

// New defaults Content-Type and Accept to application/json. Headers the
// caller sets win, and cfg.Headers is not modified.
func New(cfg httpclient.Config) (*Client, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	maps.Copy(headers, cfg.Headers)
	cfg.Headers = headers

	c, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

func (c *Client) HTTP() *httpclient.Client { return c.http }

// Response carries the decoded body of a 2xx answer.
type Response[T any] struct {
	StatusCode int
	Headers    map[string]string
	Data       T
}

// Post encodes body as JSON and decodes a 2xx body into T. An empty body
// leaves T at its zero value. Non-2xx answers return the classified
// *httpclient.Error and no response.
func Post[T any](ctx context.Context, c *Client, path string, body any) (*Response[T], error) {
	resp, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	out := &Response[T]{StatusCode: resp.StatusCode, Headers: resp.Headers}
	if len(resp.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out.Data); err != nil {
		return nil, fmt.Errorf("httpclient/rest: decode %s response: %w", path, err)
	}
	return out, nil
}
