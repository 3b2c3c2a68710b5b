package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/YaroslavBek/gigfair-core/internal/domain"
	"github.com/YaroslavBek/gigfair-core/internal/infrastructure/metrics"
	"golang.org/x/sync/singleflight"
)

// Client talks to the marketplace REST API, the owner of all persisted
// state. Responses are authoritative; callers replace their cached view
// with whatever comes back. Identical concurrent GETs collapse to one
// in-flight request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	group      singleflight.Group
	metrics    *metrics.CoreMetrics
}

func NewClient(baseURL, token string, timeout time.Duration, m *metrics.CoreMetrics) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveAPIRequest(method, path, time.Since(start).Seconds())
	if err != nil {
		// A cancelled invalidation token is not a transport failure:
		// the caller abandoned the view and discards the result anyway.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.TransportError{Op: method + " " + path, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domain.TransportError{Op: method + " " + path, Cause: err}
		}
		return nil
	}

	return c.statusError(method, path, resp)
}

type apiError struct {
	Error    string `json:"error"`
	Field    string `json:"field,omitempty"`
	Resource string `json:"resource,omitempty"`
	ID       string `json:"id,omitempty"`
}

func (c *Client) statusError(method, path string, resp *http.Response) error {
	var body apiError
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &domain.ValidationError{Field: body.Field, Reason: body.Error}
	case http.StatusUnauthorized, http.StatusForbidden:
		reason := body.Error
		if reason == "" {
			reason = "credential rejected"
		}
		return &domain.AuthError{Reason: reason}
	case http.StatusNotFound:
		switch body.Resource {
		case "order":
			return domain.ErrOrderNotFound
		case "conversation":
			return domain.ErrConversationNotFound
		case "notification":
			return domain.ErrNotificationNotFound
		}
		// No resource in the body: classify by the path we asked for.
		switch {
		case strings.HasPrefix(path, "/api/orders"):
			return domain.ErrOrderNotFound
		case strings.HasPrefix(path, "/api/conversations"), strings.HasPrefix(path, "/api/messages"):
			return domain.ErrConversationNotFound
		case strings.HasPrefix(path, "/api/notifications"):
			return domain.ErrNotificationNotFound
		default:
			return domain.ErrNotFound
		}
	case http.StatusConflict:
		return &domain.ConflictError{Resource: body.Resource, ID: body.ID}
	default:
		return &domain.TransportError{
			Op:    method + " " + path,
			Cause: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body.Error),
		}
	}
}

// getShared runs a GET through singleflight so redundant concurrent
// fetches of the same logical resource collapse to one request.
func getShared[T any](ctx context.Context, c *Client, path string) (T, error) {
	v, err, _ := c.group.Do(path, func() (any, error) {
		var out T
		if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
			return out, err
		}
		return out, nil
	})
	out, _ := v.(T)
	return out, err
}
