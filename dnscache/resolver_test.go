package dnscache

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingLookup(counter *atomic.Int32, addrs ...string) LookupFunc {
	return func(ctx context.Context, host string) ([]string, error) {
		counter.Add(1)
		return addrs, nil
	}
}

func TestResolver_CachesWithinTTL(t *testing.T) {
	var calls atomic.Int32
	r := New(time.Minute, time.Second, WithLookupFunc(countingLookup(&calls, "127.0.0.1")))

	for range 3 {
		addrs, err := r.LookupHost(context.Background(), "api.phone.id")
		require.NoError(t, err)
		require.Equal(t, []string{"127.0.0.1"}, addrs)
	}

	require.Equal(t, int32(1), calls.Load())
}

func TestResolver_ExpiresAfterTTL(t *testing.T) {
	var calls atomic.Int32
	r := New(20*time.Millisecond, time.Second, WithLookupFunc(countingLookup(&calls, "127.0.0.1")))

	_, err := r.LookupHost(context.Background(), "api.phone.id")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = r.LookupHost(context.Background(), "api.phone.id")
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestResolver_ZeroTTLDisablesCache(t *testing.T) {
	var calls atomic.Int32
	r := New(0, time.Second, WithLookupFunc(countingLookup(&calls, "127.0.0.1")))

	for range 2 {
		_, err := r.LookupHost(context.Background(), "api.phone.id")
		require.NoError(t, err)
	}

	require.Equal(t, int32(2), calls.Load())
}

func TestResolver_NegativeTTLNeverExpires(t *testing.T) {
	var calls atomic.Int32
	r := New(-1, time.Second, WithLookupFunc(countingLookup(&calls, "127.0.0.1")))

	_, err := r.LookupHost(context.Background(), "api.phone.id")
	require.NoError(t, err)
	_, err = r.LookupHost(context.Background(), "api.phone.id")
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())

	r.Flush()

	_, err = r.LookupHost(context.Background(), "api.phone.id")
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestResolver_LookupErrors(t *testing.T) {
	t.Run("resolver failure is not cached", func(t *testing.T) {
		var calls atomic.Int32
		lookupErr := errors.New("no such host")
		r := New(time.Minute, time.Second, WithLookupFunc(func(ctx context.Context, host string) ([]string, error) {
			calls.Add(1)
			return nil, lookupErr
		}))

		_, err := r.LookupHost(context.Background(), "api.phone.id")
		require.ErrorIs(t, err, lookupErr)
		_, err = r.LookupHost(context.Background(), "api.phone.id")
		require.ErrorIs(t, err, lookupErr)
		require.Equal(t, int32(2), calls.Load())
	})

	t.Run("empty result", func(t *testing.T) {
		r := New(time.Minute, time.Second, WithLookupFunc(func(ctx context.Context, host string) ([]string, error) {
			return nil, nil
		}))

		_, err := r.LookupHost(context.Background(), "api.phone.id")
		require.ErrorIs(t, err, ErrNoAddresses)
	})
}

func TestResolver_ConcurrentLookups(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	r := New(time.Minute, time.Second, WithLookupFunc(func(ctx context.Context, host string) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"127.0.0.1"}, nil
	}))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.LookupHost(context.Background(), "api.phone.id")
			assert.NoError(t, err)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.LessOrEqual(t, calls.Load(), int32(8))
	require.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestResolver_DialContext(t *testing.T) {
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	_, port, err := net.SplitHostPort(listener.Addr().String())
	require.NoError(t, err)

	t.Run("resolves host through cache", func(t *testing.T) {
		var calls atomic.Int32
		r := New(time.Minute, time.Second, WithLookupFunc(countingLookup(&calls, "127.0.0.1")))

		for range 2 {
			conn, err := r.DialContext(context.Background(), "tcp", net.JoinHostPort("phone.test", port))
			require.NoError(t, err)
			_ = conn.Close()
		}
		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("ip literal skips lookup", func(t *testing.T) {
		var calls atomic.Int32
		r := New(time.Minute, time.Second, WithLookupFunc(countingLookup(&calls)))

		conn, err := r.DialContext(context.Background(), "tcp", listener.Addr().String())
		require.NoError(t, err)
		_ = conn.Close()
		require.Zero(t, calls.Load())
	})

	t.Run("invalid address", func(t *testing.T) {
		r := New(time.Minute, time.Second)

		_, err := r.DialContext(context.Background(), "tcp", "missing-port")
		require.Error(t, err)
	})
}

func TestResolver_CancelledCallerDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	r := New(time.Minute, time.Second, WithLookupFunc(func(ctx context.Context, host string) ([]string, error) {
		once.Do(func() { close(started) })
		select {
		case <-time.After(100 * time.Millisecond):
			return []string{"127.0.0.1"}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}))

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := r.LookupHost(firstCtx, "api.phone.id")
		firstErr <- err
	}()

	<-started

	secondResult := make(chan []string, 1)
	secondErr := make(chan error, 1)
	go func() {
		addrs, err := r.LookupHost(context.Background(), "api.phone.id")
		secondResult <- addrs
		secondErr <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancelFirst()

	require.ErrorIs(t, <-firstErr, context.Canceled)
	require.NoError(t, <-secondErr)
	require.Equal(t, []string{"127.0.0.1"}, <-secondResult)
}
