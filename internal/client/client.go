package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/feedback-widget/internal/domain/feedback"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the hosted feedback service.
	DefaultBaseURL = "https://api.cobbl.ai"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second

	feedbackPath = "/public/v1/feedback"
)

// Option configures a FeedbackClient.
type Option func(*FeedbackClient)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *FeedbackClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *FeedbackClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *FeedbackClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// FeedbackClient talks to the remote feedback service. It holds no record state.
type FeedbackClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFeedbackClient creates a client for baseURL, or DefaultBaseURL when empty.
func NewFeedbackClient(baseURL string, opts ...Option) *FeedbackClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &FeedbackClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanOptions(trace.WithSpanKind(trace.SpanKindClient)),
			),
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized service base URL.
func (c *FeedbackClient) BaseURL() string {
	return c.baseURL
}

// Create posts a new feedback record and returns its id.
func (c *FeedbackClient) Create(ctx context.Context, req feedback.CreateRequest) (string, error) {
	var out feedback.CreateResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+feedbackPath, req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("create feedback: response carried no id")
	}
	c.logger.Debug("feedback created", "run_id", req.RunID, "feedback_id", out.ID)
	return out.ID, nil
}

// Update patches an existing feedback record.
func (c *FeedbackClient) Update(ctx context.Context, id string, req feedback.UpdateRequest) error {
	endpoint := c.baseURL + feedbackPath + "/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, endpoint, req, nil); err != nil {
		return err
	}
	c.logger.Debug("feedback updated", "feedback_id", id)
	return nil
}

func (c *FeedbackClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s body: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(resp, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	return nil
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
	StatusText string
	// Message is the service-provided error, when the body carried one.
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.StatusText)
}

func newHTTPError(resp *http.Response, body []byte) *HTTPError {
	herr := &HTTPError{
		StatusCode: resp.StatusCode,
		StatusText: strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "),
	}
	var parsed feedback.ErrorResponse
	if json.Unmarshal(body, &parsed) == nil {
		herr.Message = parsed.Error
	}
	return herr
}
