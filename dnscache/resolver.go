package dnscache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// ErrNoAddresses is returned when a lookup succeeds but yields no addresses.
var ErrNoAddresses = errors.New("dnscache: no addresses found")

// LookupFunc resolves a host name into a list of addresses.
type LookupFunc func(ctx context.Context, host string) ([]string, error)

// Resolver caches host lookups and dials connections using the cached addresses.
// It is safe for concurrent use.
type Resolver struct {
	ttl         time.Duration
	dialTimeout time.Duration
	cache       *gocache.Cache
	group       singleflight.Group
	lookup      LookupFunc
	dialer      *net.Dialer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLookupFunc replaces the default system resolver (net.DefaultResolver.LookupHost).
func WithLookupFunc(fn LookupFunc) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.lookup = fn
		}
	}
}

// New creates a Resolver that keeps lookups for ttl and uses dialTimeout
// as the connect timeout for every dial attempt. dialTimeout also bounds each
// shared lookup, which is not cancelled when a single waiting caller gives up.
func New(ttl, dialTimeout time.Duration, opts ...Option) *Resolver {
	r := &Resolver{
		ttl:         ttl,
		dialTimeout: dialTimeout,
		lookup:      net.DefaultResolver.LookupHost,
		dialer: &net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		},
	}

	// A zero cleanup interval keeps go-cache from starting its janitor goroutine;
	// expired entries are still ignored by Get and overwritten on the next lookup.
	switch {
	case ttl > 0:
		r.cache = gocache.New(ttl, 0)
	case ttl < 0:
		r.cache = gocache.New(gocache.NoExpiration, 0)
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// TTL returns the configured cache lifetime.
func (r *Resolver) TTL() time.Duration {
	return r.ttl
}

// DialTimeout returns the connect timeout applied to every dial attempt.
func (r *Resolver) DialTimeout() time.Duration {
	return r.dialTimeout
}

// LookupHost returns the addresses for host, served from the cache when possible.
func (r *Resolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if r.cache != nil {
		if v, ok := r.cache.Get(host); ok {
			if addrs, ok := v.([]string); ok {
				return addrs, nil
			}
		}
	}

	// The shared lookup must not inherit one caller's cancellation; each caller
	// stops waiting on its own ctx instead.
	ch := r.group.DoChan(host, func() (any, error) {
		lookupCtx := context.WithoutCancel(ctx)
		if r.dialTimeout > 0 {
			var cancel context.CancelFunc
			lookupCtx, cancel = context.WithTimeout(lookupCtx, r.dialTimeout)
			defer cancel()
		}

		addrs, err := r.lookup(lookupCtx, host)
		if err != nil {
			return nil, err
		}
		if len(addrs) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoAddresses, host)
		}
		if r.cache != nil {
			r.cache.Set(host, addrs, gocache.DefaultExpiration)
		}
		return addrs, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]string), nil
	}
}

// DialContext connects to addr, resolving its host through the cache.
// Each resolved address is tried in order; the last dial error is returned if all fail.
func (r *Resolver) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("dnscache: invalid address %q: %w", addr, err)
	}

	if ip := net.ParseIP(host); ip != nil {
		return r.dialer.DialContext(ctx, network, addr)
	}

	addrs, err := r.LookupHost(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("dnscache: lookup %s: %w", host, err)
	}

	var lastErr error
	for _, ip := range addrs {
		conn, err := r.dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

// Flush drops every cached lookup.
func (r *Resolver) Flush() {
	if r.cache != nil {
		r.cache.Flush()
	}
}
