package phoneid

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/pracucci/phoneid-go-sdk/apiclient"
	"github.com/pracucci/phoneid-go-sdk/dnscache"
)

const (
	loginPath = "/login"
	tokenPath = "/auth/token"
	mePath    = "/users/me"
)

// Client is the Phone.id API client. It holds the application credentials and
// the access token of the current session.
//
// The token slot is guarded by a mutex, but a Client models a single user
// session: use one Client per session rather than sharing one across users.
type Client struct {
	requester    apiclient.Requester
	resolver     *dnscache.Resolver
	clientID     string
	clientSecret string
	redirectURI  string

	mu          sync.RWMutex
	accessToken string
}

// New creates a Phone.id client.
//
// Parameters:
//   - clientID: application identifier (required, ErrMissingClientID when empty)
//   - clientSecret: application secret, sent only to the token endpoint
//   - opts: optional settings applied over DefaultOptions, in order
func New(clientID, clientSecret string, opts ...Option) (*Client, error) {
	if clientID == "" {
		return nil, ErrMissingClientID
	}

	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	requester := options.Requester
	var resolver *dnscache.Resolver
	if requester == nil {
		resolver = dnscache.New(options.DNSCacheTimeout, options.ConnectTimeout)
		builder := apiclient.NewBuilder().
			WithResolver(resolver).
			WithRequestTimeout(options.RequestTimeout)
		if options.BaseTransport != nil {
			builder = builder.WithBaseTransport(options.BaseTransport)
		}

		httpClient, err := builder.Build()
		if err != nil {
			return nil, fmt.Errorf("phoneid: build http client: %w", err)
		}

		var requesterOpts []apiclient.RequesterOption
		if options.Logger != nil {
			requesterOpts = append(requesterOpts, apiclient.WithLogger(options.Logger))
		}
		requester = apiclient.NewHTTPRequester(httpClient, requesterOpts...)
	}

	return &Client{
		requester:    requester,
		resolver:     resolver,
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  options.RedirectURI,
		accessToken:  options.AccessToken,
	}, nil
}

// ClientID returns the application identifier.
func (c *Client) ClientID() string {
	return c.clientID
}

// SetAccessToken sets the access token sent with subsequent requests.
// An empty token makes requests unauthenticated.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// AccessToken returns the current access token, or "" if none is set.
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// AuthorizeURL returns the login URL the user must be redirected to in order
// to start the authorization code flow.
//
// The defaults client_id, redirect_uri and response_type=code come first; extra
// params override them in place or are appended. Overriding a default with nil
// (or "") removes it from the URL.
func (c *Client) AuthorizeURL(extra ...apiclient.Params) string {
	defaults := apiclient.Params{
		{Key: "client_id", Value: c.clientID},
		{Key: "redirect_uri", Value: c.redirectURI},
		{Key: "response_type", Value: "code"},
	}
	return apiclient.BuildLoginURL(loginPath, apiclient.Merge(defaults, extra...))
}

// ExchangeCode trades an authorization code for an access token. When persist
// is true, the returned access_token becomes the client's current token.
// Errors from the request pipeline are returned unchanged.
func (c *Client) ExchangeCode(ctx context.Context, code string, persist bool) (apiclient.Response, error) {
	resp, err := c.requester.Request(ctx, http.MethodPost, tokenPath, apiclient.Params{
		{Key: "grant_type", Value: "authorization_code"},
		{Key: "code", Value: code},
		{Key: "client_id", Value: c.clientID},
		{Key: "client_secret", Value: c.clientSecret},
	}, apiclient.RequestOptions{})
	if err != nil {
		return nil, err
	}

	if persist {
		if token := resp.String("access_token"); token != "" {
			c.SetAccessToken(token)
		}
	}

	return resp, nil
}

// GetMe returns the profile of the user owning the current access token.
func (c *Client) GetMe(ctx context.Context) (apiclient.Response, error) {
	return c.requester.Request(ctx, http.MethodGet, mePath, nil, apiclient.RequestOptions{
		AccessToken: c.AccessToken(),
	})
}

// TokenSource exposes the current access token as an oauth2.TokenSource, so
// other golang.org/x/oauth2 based clients can reuse the session. The source
// reads the token slot on every call and never refreshes.
func (c *Client) TokenSource() oauth2.TokenSource {
	return tokenSource{client: c}
}

type tokenSource struct {
	client *Client
}

func (s tokenSource) Token() (*oauth2.Token, error) {
	token := s.client.AccessToken()
	if token == "" {
		return nil, ErrNoAccessToken
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
