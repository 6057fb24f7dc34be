package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// AuthError indicates that Jira rejected the configured credentials.
type AuthError struct {
	BaseURL string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.BaseURL, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// NotFoundError is returned for a 404 response.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// IsNotFound reports whether err (or any error in its chain) is a
// NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Client is a thin HTTP client for the Jira REST API v2.
// It authenticates with Basic auth when a username is set and with a
// Bearer personal access token otherwise, and retries on HTTP 429.
type Client struct {
	baseURL    string
	username   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewClient creates a new Jira HTTP client. The baseURL should be the
// root URL of the Jira instance (e.g., https://yourcompany.atlassian.net).
func NewClient(baseURL, username, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		token:    token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:          logger,
		maxRetries:      3,
		initialInterval: time.Second,
		maxInterval:     30 * time.Second,
	}
}

// BaseURL returns the Jira root URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs an HTTP POST request with a JSON body and unmarshals
// the JSON response.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Put performs an HTTP PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// retryAfterBackOff prefers the delay a 429 response asked for over the
// wrapped exponential schedule.
type retryAfterBackOff struct {
	backoff.BackOff
	next    time.Duration
	pending bool
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	exp := b.BackOff.NextBackOff()
	if exp == backoff.Stop {
		return backoff.Stop
	}
	if b.pending {
		b.pending = false
		return b.next
	}
	return exp
}

func (b *retryAfterBackOff) hint(d time.Duration, ok bool) {
	b.next, b.pending = d, ok
}

func (c *Client) newBackOff(ctx context.Context) (*retryAfterBackOff, backoff.BackOff) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.initialInterval
	exp.MaxInterval = c.maxInterval
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0

	ra := &retryAfterBackOff{BackOff: exp}
	return ra, backoff.WithContext(backoff.WithMaxRetries(ra, c.maxRetries), ctx)
}

// do is the core HTTP method that builds the request, handles auth,
// rate limiting with exponential backoff, and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body any,
	result any,
) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	hints, bo := c.newBackOff(ctx)
	attempt := 0

	err := backoff.Retry(func() error {
		attempt++
		respBody, retryAfter, err := c.roundTrip(ctx, method, path, payload)
		if err == nil {
			return decode(method, path, respBody, result)
		}
		if retryAfter >= 0 {
			c.logger.Warn("jira rate limited",
				"method", method, "path", path, "attempt", attempt)
			hints.hint(retryAfter, retryAfter > 0)
			return err
		}
		return backoff.Permanent(err)
	}, bo)
	if err != nil {
		if errors.Is(err, errRateLimited) {
			return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, err)
		}
		return err
	}
	return nil
}

var errRateLimited = errors.New("rate limited (429)")

// roundTrip sends one request. A non-negative retryAfter marks the error
// as retryable; a positive value is the delay the server asked for.
func (c *Client) roundTrip(
	ctx context.Context,
	method, path string,
	payload []byte,
) ([]byte, time.Duration, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, -1, fmt.Errorf("creating request: %w", err)
	}

	c.setAuth(req)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, -1, fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, -1, fmt.Errorf("reading response body: %w", readErr)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, retryAfterHeader(resp),
			fmt.Errorf("%w on %s %s", errRateLimited, method, path)

	case resp.StatusCode == http.StatusUnauthorized:
		return nil, -1, &AuthError{
			BaseURL: c.baseURL,
			Message: "authentication failed (401): check your username and API token",
		}

	case resp.StatusCode == http.StatusNotFound:
		return nil, -1, &NotFoundError{Path: path}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var jiraErr ErrorResponse
		if json.Unmarshal(respBody, &jiraErr) == nil &&
			(len(jiraErr.ErrorMessages) > 0 || len(jiraErr.Errors) > 0) {
			return nil, -1, fmt.Errorf(
				"jira API error (%d) on %s %s: %s %v",
				resp.StatusCode, method, path,
				strings.Join(jiraErr.ErrorMessages, "; "),
				jiraErr.Errors,
			)
		}
		return nil, -1, fmt.Errorf(
			"unexpected status %d on %s %s: %s",
			resp.StatusCode, method, path, string(respBody),
		)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, 0, nil
	}
	return respBody, 0, nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.username != "" {
		req.SetBasicAuth(c.username, c.token)
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
}

// decode unmarshals a successful response. Decoding failures are not
// retried.
func decode(method, path string, body []byte, result any) error {
	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return backoff.Permanent(fmt.Errorf(
			"unmarshaling response from %s %s: %w", method, path, err,
		))
	}
	return nil
}

// retryAfterHeader reads the Retry-After header in seconds. Zero means
// the header was absent or unusable and the exponential schedule applies.
func retryAfterHeader(resp *http.Response) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0
}
