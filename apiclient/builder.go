package apiclient

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pracucci/phoneid-go-sdk/dnscache"
)

const (
	// DefaultConnectTimeout bounds the TCP connect phase of a request.
	DefaultConnectTimeout = 5 * time.Second
	// DefaultRequestTimeout bounds a whole request, redirects and body read included.
	DefaultRequestTimeout = 10 * time.Second
	// DefaultDNSCacheTimeout is how long resolved addresses are reused.
	DefaultDNSCacheTimeout = 60 * time.Second
	// DefaultMaxRedirects caps automatic redirect following.
	DefaultMaxRedirects = 3
)

// Builder provides a fluent interface for constructing the HTTP client used
// to talk to the Phone.id API.
type Builder struct {
	// Timeouts
	connectTimeout  time.Duration
	requestTimeout  time.Duration
	dnsCacheTimeout time.Duration

	// TLS configuration
	tlsCAFile     string
	tlsSkipVerify bool

	baseTransport http.RoundTripper
	resolver      *dnscache.Resolver
	maxRedirects  int
}

// NewBuilder creates a new HTTP client builder with the default timeouts
// (connect 5s, request 10s, DNS cache 60s) and a 3 hop redirect limit.
func NewBuilder() *Builder {
	return &Builder{
		connectTimeout:  DefaultConnectTimeout,
		requestTimeout:  DefaultRequestTimeout,
		dnsCacheTimeout: DefaultDNSCacheTimeout,
		maxRedirects:    DefaultMaxRedirects,
	}
}

// WithConnectTimeout sets the timeout for establishing a connection.
func (b *Builder) WithConnectTimeout(timeout time.Duration) *Builder {
	b.connectTimeout = timeout
	return b
}

// WithRequestTimeout sets the total timeout for a request.
func (b *Builder) WithRequestTimeout(timeout time.Duration) *Builder {
	b.requestTimeout = timeout
	return b
}

// WithDNSCacheTimeout sets how long DNS lookups are cached.
// Zero disables the cache, a negative value keeps entries forever.
func (b *Builder) WithDNSCacheTimeout(ttl time.Duration) *Builder {
	b.dnsCacheTimeout = ttl
	return b
}

// WithResolver sets the resolver used to dial connections. It takes precedence
// over WithDNSCacheTimeout and WithConnectTimeout.
func (b *Builder) WithResolver(r *dnscache.Resolver) *Builder {
	b.resolver = r
	return b
}

// WithTLS sets a CA certificate used to verify the server instead of the system roots.
func (b *Builder) WithTLS(caFile string) *Builder {
	b.tlsCAFile = caFile
	return b
}

// WithInsecureSkipVerify disables TLS certificate verification (NOT RECOMMENDED for production).
func (b *Builder) WithInsecureSkipVerify() *Builder {
	b.tlsSkipVerify = true
	return b
}

// WithBaseTransport sets a custom transport. The resolver and TLS settings are
// not applied to it; timeouts and the redirect policy still are.
func (b *Builder) WithBaseTransport(transport http.RoundTripper) *Builder {
	b.baseTransport = transport
	return b
}

// WithMaxRedirects sets how many redirects are followed. Zero disables redirects:
// the 3xx response itself is returned.
func (b *Builder) WithMaxRedirects(n int) *Builder {
	b.maxRedirects = n
	return b
}

// Build constructs the HTTP client with the configured options.
func (b *Builder) Build() (*http.Client, error) {
	transport := b.baseTransport
	if transport == nil {
		base, ok := http.DefaultTransport.(*http.Transport)
		if !ok {
			return nil, errors.New("apiclient: http.DefaultTransport is not an *http.Transport; use WithBaseTransport")
		}

		tlsConfig, err := b.buildTLSConfig()
		if err != nil {
			return nil, fmt.Errorf("apiclient: TLS config failed: %w", err)
		}

		resolver := b.resolver
		if resolver == nil {
			resolver = dnscache.New(b.dnsCacheTimeout, b.connectTimeout)
		}

		httpTransport := base.Clone()
		httpTransport.DialContext = resolver.DialContext
		httpTransport.TLSClientConfig = tlsConfig
		transport = httpTransport
	}

	return &http.Client{
		Transport:     transport,
		Timeout:       b.requestTimeout,
		CheckRedirect: redirectPolicy(b.maxRedirects),
	}, nil
}

func redirectPolicy(maxRedirects int) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if maxRedirects <= 0 {
			return http.ErrUseLastResponse
		}
		if len(via) > maxRedirects {
			return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
		}
		return nil
	}
}

// buildTLSConfig constructs the TLS configuration, TLS 1.2 at minimum.
func (b *Builder) buildTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: b.tlsSkipVerify, // #nosec G402
	}

	if b.tlsCAFile != "" {
		caCert, err := os.ReadFile(b.tlsCAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}

		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to parse CA certificate")
		}
		tlsConfig.RootCAs = certPool
	}

	return tlsConfig, nil
}
