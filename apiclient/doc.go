// Package apiclient implements the HTTP request pipeline of the Phone.id SDK.
//
// It builds canonical URLs against the fixed API and login hosts, attaches bearer
// tokens, issues GET and POST requests over a configurable net/http client, decodes
// JSON responses and classifies failures.
//
// # Features
//
//   - Deterministic URL building with an empty-value filter (nil, "", false and 0 are dropped)
//   - Ordered parameter merging (defaults first, overrides replace in place, extras appended)
//   - Bearer token injection through the Authorization header
//   - Fluent Builder for http.Client: connect/request timeouts, cached DNS, 3 hop redirect cap, TLS 1.2+
//   - Typed errors: NetworkError, ServerError, ClientError, UnsupportedMethodError
//
// # Quick Start
//
//	client, err := apiclient.NewBuilder().
//	    WithConnectTimeout(5 * time.Second).
//	    WithRequestTimeout(10 * time.Second).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	requester := apiclient.NewHTTPRequester(client, apiclient.WithLogger(log.Default()))
//	me, err := requester.Request(ctx, http.MethodGet, "/users/me", nil,
//	    apiclient.RequestOptions{AccessToken: token})
//
// # Error Classification
//
// Responses are classified in this order:
//
//  1. Transport failure (DNS, refused connection, timeout, TLS, redirect limit): *NetworkError
//  2. Body is not a non-empty JSON object, whatever the status: *ServerError carrying the raw body
//  3. Status 5xx: *ServerError
//  4. Any other non-2xx status: *ClientError
//
// Nothing is retried. HTTPRequester is safe for concurrent use.
package apiclient
