// Package dnscache provides a small DNS lookup cache for outgoing HTTP connections.
//
// A Resolver remembers the addresses returned for a host for a configurable TTL and
// exposes a DialContext function that can be plugged into an http.Transport. Concurrent
// lookups for the same host are collapsed into a single resolver call.
//
// # TTL semantics
//
//   - Positive duration: addresses are reused until the TTL elapses
//   - Zero: caching is disabled, every dial performs a lookup
//   - Negative: addresses never expire (until Flush is called)
//
// # Quick Start
//
//	r := dnscache.New(60*time.Second, 5*time.Second)
//	transport := &http.Transport{DialContext: r.DialContext}
package dnscache
