package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

// NewLocalHTTPServer starts an HTTP server bound to IPv4 loopback only.
// The sandbox blocks IPv6 listeners, so force tcp4 to keep tests runnable.
func NewLocalHTTPServer(tb testing.TB, handler http.Handler) *httptest.Server {
	tb.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("failed to create IPv4 listener: %v", err)
	}

	server := httptest.NewUnstartedServer(handler)
	server.Listener = listener
	server.Start()
	tb.Cleanup(server.Close)

	return server
}

// RoundTripFunc allows inlining http.RoundTripper implementations.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// RoundTrip calls the underlying function.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// RecordedRequest is a snapshot of a request seen by MockAPI.
type RecordedRequest struct {
	Header http.Header
	Method string
	URL    string
	Path   string
	Body   string
}

// MockAPI simulates the Phone.id API without real sockets.
// Plug Transport into a client builder, or use Client directly.
type MockAPI struct {
	Transport http.RoundTripper
	Client    *http.Client

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewMockAPI builds a mock API backed by an in-memory RoundTripper.
// If handler is nil, every request gets an empty JSON object with status 200.
func NewMockAPI(tb testing.TB, handler RoundTripFunc) *MockAPI {
	tb.Helper()

	if handler == nil {
		handler = StaticJSONResponse(`{}`)
	}

	m := &MockAPI{}
	m.Transport = RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		recorded := RecordedRequest{
			Method: req.Method,
			URL:    req.URL.String(),
			Path:   req.URL.Path,
			Header: req.Header.Clone(),
		}
		if req.Body != nil {
			body, err := io.ReadAll(req.Body)
			if err != nil {
				tb.Errorf("failed to read request body: %v", err)
			}
			recorded.Body = string(body)
		}

		m.mu.Lock()
		m.requests = append(m.requests, recorded)
		m.mu.Unlock()

		return handler(req)
	})
	m.Client = &http.Client{Transport: m.Transport}

	return m
}

// Requests returns the requests recorded so far.
func (m *MockAPI) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// JSONResponse returns a handler that always responds with status and the provided body.
func JSONResponse(status int, body string) RoundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		header := make(http.Header)
		header.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

// StaticJSONResponse returns a handler that always responds 200 with the provided JSON body.
func StaticJSONResponse(body string) RoundTripFunc {
	return JSONResponse(http.StatusOK, body)
}

// RawResponse returns a handler that responds with a non-JSON body.
func RawResponse(status int, body string) RoundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		header := make(http.Header)
		header.Set("Content-Type", "text/html")
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Header:     header,
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

// RedirectResponse returns a handler that always redirects to location.
func RedirectResponse(location string) RoundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		header := make(http.Header)
		header.Set("Location", location)
		return &http.Response{
			StatusCode: http.StatusFound,
			Status:     http.StatusText(http.StatusFound),
			Header:     header,
			Body:       http.NoBody,
			Request:    req,
		}, nil
	}
}

// FailingTransport returns a handler that fails every request with err,
// simulating a refused connection or DNS failure.
func FailingTransport(err error) RoundTripFunc {
	return func(req *http.Request) (*http.Response, error) {
		return nil, err
	}
}

// WriteTestCACert writes a self-signed CA certificate to the provided path for TLS tests.
func WriteTestCACert(tb testing.TB, path string) {
	tb.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		tb.Fatalf("failed to generate CA key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		Subject:               pkix.Name{CommonName: "phoneid-test-ca"},
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	if err != nil {
		tb.Fatalf("failed to create CA certificate: %v", err)
	}

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		tb.Fatalf("failed to write CA certificate: %v", err)
	}
}
