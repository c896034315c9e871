// Package signupclient provides a simple client for the Mergington activity
// signup HTTP API.
//
// Example usage:
//
//	client := signupclient.New("http://localhost:8080")
//	msg, err := client.Signup(ctx, "Chess Club", "ada@mergington.edu")
package signupclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Activity is an activity as returned by GET /activities.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// APIError is returned when the server answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
}

// Client talks to a signup server.
// Use New() to create a new client for a given server.
type Client struct {
	Host       string
	HTTPClient *http.Client
}

// New creates a new Client for the given server.
// The host should include the scheme (e.g., "http://localhost:8080").
func New(host string) *Client {
	return &Client{
		Host:       strings.TrimSuffix(host, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Activities returns all activities keyed by name.
func (c *Client) Activities(ctx context.Context) (map[string]Activity, error) {
	var out map[string]Activity
	if err := c.do(ctx, http.MethodGet, "/activities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Signup signs email up for activity and returns the server's message.
func (c *Client) Signup(ctx context.Context, activity, email string) (string, error) {
	return c.rosterChange(ctx, http.MethodPost, activity, email)
}

// Unregister removes email from activity and returns the server's message.
func (c *Client) Unregister(ctx context.Context, activity, email string) (string, error) {
	return c.rosterChange(ctx, http.MethodDelete, activity, email)
}

func (c *Client) rosterChange(ctx context.Context, method, activity, email string) (string, error) {
	path := "/activities/" + url.PathEscape(activity) + "/signup?email=" + url.QueryEscape(email)

	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, method, path, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.Host+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &e) == nil && e.Detail != "" {
			apiErr.Detail = e.Detail
		} else {
			apiErr.Detail = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
