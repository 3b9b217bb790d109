package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// apiClient talks to the chat service's JSON endpoints.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// apiError is returned for any non-2xx response.
type apiError struct {
	StatusCode int
	Detail     string
}

func (e *apiError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
}

func (c *apiClient) Chat(ctx context.Context, message string) (string, error) {
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := c.do(ctx, http.MethodPost, "/chat", map[string]string{"message": message}, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

func (c *apiClient) History(ctx context.Context) ([]string, error) {
	var resp struct {
		History []string `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, "/history", nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

func (c *apiClient) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/clear", nil, nil)
}

func (c *apiClient) Profile(ctx context.Context) (map[string]string, error) {
	profile := map[string]string{}
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error creating JSON payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{StatusCode: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&detail) == nil {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
