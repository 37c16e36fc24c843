package phoneid

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds Phone.id client configuration loaded from the environment.
// A timeout of 0s disables that timeout; see WithConnectTimeout, WithRequestTimeout
// and WithDNSCacheTimeout.
type Config struct {
	ClientID        string        `env:"PHONEID_CLIENT_ID,required,notEmpty"`
	ClientSecret    string        `env:"PHONEID_CLIENT_SECRET"`
	RedirectURI     string        `env:"PHONEID_REDIRECT_URI"`
	ConnectTimeout  time.Duration `env:"PHONEID_CONNECT_TIMEOUT" envDefault:"5s"`
	RequestTimeout  time.Duration `env:"PHONEID_REQUEST_TIMEOUT" envDefault:"10s"`
	DNSCacheTimeout time.Duration `env:"PHONEID_DNS_CACHE_TIMEOUT" envDefault:"60s"`
}

// LoadConfig parses Config from the process environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("phoneid: load config: %w", err)
	}
	return cfg, nil
}

// Options converts the configuration into client options.
func (c Config) Options() []Option {
	return []Option{
		WithRedirectURI(c.RedirectURI),
		WithConnectTimeout(c.ConnectTimeout),
		WithRequestTimeout(c.RequestTimeout),
		WithDNSCacheTimeout(c.DNSCacheTimeout),
	}
}

// NewFromConfig creates a Client from cfg. Extra options are applied after the
// configuration and win over it.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	return New(cfg.ClientID, cfg.ClientSecret, append(cfg.Options(), opts...)...)
}
