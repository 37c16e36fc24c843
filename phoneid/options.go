package phoneid

import (
	"log"
	"net/http"
	"time"

	"github.com/pracucci/phoneid-go-sdk/apiclient"
)

// Options holds the client settings. Unset fields keep the values from DefaultOptions.
type Options struct {
	// Requester replaces the HTTP pipeline, typically with a test double.
	Requester apiclient.Requester
	Logger    apiclient.Logger
	// BaseTransport replaces the DNS-caching transport. The request timeout still applies.
	BaseTransport http.RoundTripper

	RedirectURI string
	AccessToken string

	ConnectTimeout  time.Duration
	RequestTimeout  time.Duration
	DNSCacheTimeout time.Duration
}

// DefaultOptions returns connect 5s, request 10s and DNS cache 60s timeouts,
// with no redirect URI and no access token.
func DefaultOptions() Options {
	return Options{
		ConnectTimeout:  apiclient.DefaultConnectTimeout,
		RequestTimeout:  apiclient.DefaultRequestTimeout,
		DNSCacheTimeout: apiclient.DefaultDNSCacheTimeout,
	}
}

// Option is a functional option for configuring Client.
type Option func(*Options)

// WithRedirectURI sets the redirect_uri sent with the authorize URL.
func WithRedirectURI(uri string) Option {
	return func(o *Options) {
		o.RedirectURI = uri
	}
}

// WithAccessToken sets the initial access token.
func WithAccessToken(token string) Option {
	return func(o *Options) {
		o.AccessToken = token
	}
}

// WithConnectTimeout sets the connect timeout, which also bounds DNS lookups.
// Zero means no timeout: a connect can block until the request timeout or the context ends.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.ConnectTimeout = d
	}
}

// WithRequestTimeout sets the total request timeout.
// Zero means no timeout: only the caller's context bounds the request.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.RequestTimeout = d
	}
}

// WithDNSCacheTimeout sets how long DNS lookups are cached.
// Zero disables the cache, a negative value keeps entries forever.
func WithDNSCacheTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.DNSCacheTimeout = d
	}
}

// WithRequester injects the request pipeline. The timeout options are ignored
// when a Requester is provided.
func WithRequester(r apiclient.Requester) Option {
	return func(o *Options) {
		o.Requester = r
	}
}

// WithBaseTransport sets the transport requests are sent through, in place of
// the default DNS-caching one. It is ignored when a Requester is provided.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *Options) {
		o.BaseTransport = rt
	}
}

// WithLogger sets a custom logger for request events.
// If not set, no logging will occur.
func WithLogger(logger apiclient.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithLoggingEnabled enables logging using the default Go log package.
func WithLoggingEnabled() Option {
	return func(o *Options) {
		o.Logger = log.Default()
	}
}
