// Package client dispatches one HTTP request per operator action against the
// Wishlist REST API and classifies the outcome.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/WishDesk/internal/models"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 10 << 20

// Response is a successful (2xx) reply.
type Response struct {
	Status    int
	Body      []byte
	RequestID string
}

// Resource decodes the body as a single object.
func (r *Response) Resource() (models.Resource, error) {
	return models.DecodeResource(r.Body)
}

// Resources decodes the body as a list of objects.
func (r *Response) Resources() ([]models.Resource, error) {
	return models.DecodeResources(r.Body)
}

// Empty reports whether the body carried nothing (e.g. 204 No Content).
func (r *Response) Empty() bool {
	return len(bytes.TrimSpace(r.Body)) == 0
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics records every request on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Client talks to the REST API rooted at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
	metrics    *Metrics
}

// New creates a Client. timeout applies per request; zero means none.
func New(baseURL string, timeout time.Duration, logger *logrus.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send issues method against path. A non-nil body is sent as JSON. Any
// non-2xx reply or transport failure comes back as *APIError.
func (c *Client) Send(ctx context.Context, method, path string, body any) (*Response, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("unsupported method %q", method)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(method, 0, time.Since(start))
		log.WithError(err).Warn("request failed")
		return nil, &APIError{
			Method:  method,
			Path:    path,
			Message: GenericMessage,
			Err:     err,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	elapsed := time.Since(start)
	c.metrics.observe(method, resp.StatusCode, elapsed)
	if err != nil {
		log.WithError(err).Warn("failed to read response body")
		return nil, &APIError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: GenericMessage,
			Err:     fmt.Errorf("read body: %w", err),
		}
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": elapsed,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: messageFromBody(data),
			Raw:     string(data),
		}
		log.WithField("message", apiErr.Message).Warn("request rejected")
		return nil, apiErr
	}

	log.Debug("request completed")
	return &Response{
		Status:    resp.StatusCode,
		Body:      data,
		RequestID: requestID,
	}, nil
}
