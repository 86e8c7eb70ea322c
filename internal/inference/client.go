package inference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/review-o-meter/internal/config"
	apperrors "github.com/ZanzyTHEbar/review-o-meter/internal/errors"
	"github.com/ZanzyTHEbar/review-o-meter/internal/monitoring"
	"github.com/ZanzyTHEbar/review-o-meter/internal/review"
)

const (
	// APIName labels the inference service in logs and metrics
	APIName = "inference"

	userAgent         = "Review-o-Meter/1.0"
	reviewField       = "review"
	analyzeReviewPath = "/analyze-review"
	maxDrainBytes     = 64 << 10
)

// Client is an inference client for one of the two wire contracts
type Client interface {
	review.Analyzer
	Variant() review.Variant
	Endpoint() string
	Close() error
}

// Option configures a client
type Option func(*baseClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *baseClient) {
		c.httpClient = httpClient
	}
}

// WithLogger logs every call to the inference service
func WithLogger(logger *monitoring.Logger) Option {
	return func(c *baseClient) {
		c.logger = logger
	}
}

// WithMetrics counts calls to the inference service
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(c *baseClient) {
		c.metrics = metrics
	}
}

// New creates the client selected by cfg.APIVariant
func New(cfg *config.Config, opts ...Option) (Client, error) {
	switch cfg.APIVariant {
	case config.VariantMultipart:
		return NewMultipartClient(cfg.APIURL, cfg.APITimeout, opts...), nil
	case config.VariantJSON:
		return NewJSONClient(cfg.APIURL, cfg.APITimeout, opts...), nil
	}
	return nil, apperrors.NewConfigurationError("unknown inference variant "+string(cfg.APIVariant), nil)
}

type baseClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *monitoring.Logger
	metrics    *monitoring.Metrics
}

func newBaseClient(endpoint string, timeout time.Duration, opts []Option) baseClient {
	c := baseClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			// Zero means the call waits until the service answers.
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   5,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Endpoint returns the URL requests are posted to
func (c *baseClient) Endpoint() string {
	return c.endpoint
}

// Close releases idle connections
func (c *baseClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// post sends body and decodes a 2xx JSON answer into out. Transport and
// decode failures carry the cause's message; any other status is an API error.
func (c *baseClient) post(ctx context.Context, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return apperrors.NewNetworkError(err.Error(), err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.record(0, duration, false)
		return apperrors.NewNetworkError(err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		c.record(resp.StatusCode, duration, false)
		return apperrors.NewAPIStatusError(APIName, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.record(resp.StatusCode, duration, false)
		return apperrors.NewNetworkError(err.Error(), err)
	}

	c.record(resp.StatusCode, duration, true)
	return nil
}

func (c *baseClient) record(statusCode int, duration time.Duration, success bool) {
	if c.metrics != nil {
		c.metrics.RecordExternalAPIRequest(APIName, success)
	}
	if c.logger != nil {
		c.logger.ExternalAPILogger(APIName, http.MethodPost, c.endpoint, statusCode, duration, success)
	}
}

func joinPath(baseURL, path string) string {
	return strings.TrimSuffix(baseURL, "/") + path
}
