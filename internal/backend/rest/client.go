// Package rest is the HTTP backend adapter. Requests follow the
// backend's JSON API; the change stream is a websocket (see stream.go).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	internal_errors "github.com/moyim-dev/moyim/shared/errors"
)

// Client handles all communication with the backend API.
type Client struct {
	BaseURL    string
	StreamURL  string
	HttpClient *http.Client

	token string
}

func New(baseURL, streamURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		StreamURL:  streamURL,
		HttpClient: &http.Client{},
	}
}

// SetToken installs the session token attached to every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

// do is the single, unified helper for making API requests.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, &internal_errors.NetworkError{Op: method + " " + path, Cause: err}
	}
	return resp, nil
}

// doJSON runs the request and decodes a 200 response into out (out may
// be nil when the body is irrelevant).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return internal_errors.ErrAuthRequired
	case resp.StatusCode == http.StatusNotFound:
		return internal_errors.ErrNotFound
	default:
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}
}
