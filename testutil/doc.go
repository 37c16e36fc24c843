// Package testutil provides test helpers for the Phone.id SDK packages.
//
// It mocks the Phone.id API without real sockets, spins up IPv4-only local HTTP
// servers (avoiding IPv6 in sandboxes) and writes throwaway CA certificates for TLS tests.
//
// # Utilities
//
//   - RoundTripFunc: inline http.RoundTripper implementations
//   - MockAPI: records requests and serves canned responses through a RoundTripper
//   - JSONResponse, StaticJSONResponse, RawResponse, RedirectResponse, FailingTransport: canned handlers
//   - NewLocalHTTPServer: start an httptest server bound to 127.0.0.1
//   - WriteTestCACert: generate a temporary CA certificate
package testutil
