package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "phoneid-go-sdk/1.0"

// Logger is an interface for optional request logging.
type Logger interface {
	Printf(format string, args ...any)
}

// RequestOptions carries per-request settings.
type RequestOptions struct {
	// AccessToken is sent as "Authorization: Bearer <token>" when non-empty.
	AccessToken string
}

// Requester issues a single API request and classifies its outcome.
// HTTPRequester is the production implementation; tests can substitute their own.
type Requester interface {
	Request(ctx context.Context, method, path string, data Params, opts RequestOptions) (Response, error)
}

// HTTPRequester executes requests against the Phone.id API host over net/http.
type HTTPRequester struct {
	client    *http.Client
	logger    Logger
	userAgent string
}

// RequesterOption configures an HTTPRequester.
type RequesterOption func(*HTTPRequester)

// WithLogger sets a logger that records every request (method, redacted URL,
// status and duration). Access tokens are never logged.
func WithLogger(logger Logger) RequesterOption {
	return func(r *HTTPRequester) {
		r.logger = logger
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(userAgent string) RequesterOption {
	return func(r *HTTPRequester) {
		r.userAgent = userAgent
	}
}

// NewHTTPRequester creates a Requester backed by client. A nil client is
// replaced by one built with NewBuilder defaults.
func NewHTTPRequester(client *http.Client, opts ...RequesterOption) *HTTPRequester {
	if client == nil {
		// The default builder reads no TLS files, so Build cannot fail
		// unless http.DefaultTransport has been swapped out.
		built, err := NewBuilder().Build()
		if err != nil {
			built = &http.Client{
				Timeout:       DefaultRequestTimeout,
				CheckRedirect: redirectPolicy(DefaultMaxRedirects),
			}
		}
		client = built
	}

	r := &HTTPRequester{
		client:    client,
		userAgent: DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// HTTPClient returns the underlying HTTP client.
func (r *HTTPRequester) HTTPClient() *http.Client {
	return r.client
}

// Request performs method on path and returns the decoded JSON object.
//
// GET sends data as a filtered query string. POST sends data as an unfiltered
// form-encoded body. Failures are returned as *UnsupportedMethodError,
// *NetworkError, *ServerError or *ClientError.
func (r *HTTPRequester) Request(ctx context.Context, method, path string, data Params, opts RequestOptions) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	req, err := newRequest(ctx, method, path, data)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}
	if opts.AccessToken != "" {
		(&oauth2.Token{AccessToken: opts.AccessToken, TokenType: "Bearer"}).SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		r.logf("phoneid: %s %s failed after %s: %v", req.Method, redactURL(req.URL), time.Since(start), err)
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.logf("phoneid: %s %s body read failed: %v", req.Method, redactURL(req.URL), err)
		return nil, &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	r.logf("phoneid: %s %s -> %d (%s)", req.Method, redactURL(req.URL), resp.StatusCode, time.Since(start))

	return decodeResponse(resp.StatusCode, body)
}

func newRequest(ctx context.Context, method, path string, data Params) (*http.Request, error) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, BuildAPIURL(path, data), nil)
		if err != nil {
			return nil, fmt.Errorf("apiclient: build request: %w", err)
		}
		return req, nil

	case http.MethodPost:
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, BuildAPIURL(path, nil), strings.NewReader(data.Encode()))
		if err != nil {
			return nil, fmt.Errorf("apiclient: build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil

	default:
		return nil, &UnsupportedMethodError{Method: method}
	}
}

// decodeResponse classifies a completed HTTP exchange. An undecodable or empty
// body wins over the status code.
func decodeResponse(status int, body []byte) (Response, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil || isEmpty(decoded) {
		return nil, undecodable(status, body)
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, undecodable(status, body)
	}

	switch {
	case status >= 500 && status < 600:
		return nil, &ServerError{StatusCode: status, Message: messageOf(obj), Body: string(body)}
	case status < 200 || status >= 300:
		return nil, &ClientError{StatusCode: status, Message: messageOf(obj)}
	}

	return Response(obj), nil
}

func undecodable(status int, body []byte) *ServerError {
	return &ServerError{
		StatusCode: status,
		Message:    "unable to decode response: " + string(body),
		Body:       string(body),
	}
}

func messageOf(obj map[string]any) string {
	if msg, ok := obj["message"]; ok && !isEmpty(msg) {
		return formatValue(msg)
	}
	return noMessage
}

// redactURL hides query values, which may carry client identifiers or codes.
func redactURL(u *url.URL) string {
	if u.RawQuery == "" {
		return u.String()
	}

	clone := *u
	query := clone.Query()
	for key := range query {
		query.Set(key, "xxxxx")
	}
	clone.RawQuery = query.Encode()
	return clone.String()
}

func (r *HTTPRequester) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
