package apiclient

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// Response is a decoded JSON object returned by the API.
type Response map[string]any

// String returns the value at key rendered as a string, or "" when absent or null.
func (r Response) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return formatValue(v)
}

// Token converts a token endpoint response into an oauth2.Token.
// It returns nil when the response carries no access_token.
func (r Response) Token() *oauth2.Token {
	accessToken := r.String("access_token")
	if accessToken == "" {
		return nil
	}

	token := &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    r.String("token_type"),
		RefreshToken: r.String("refresh_token"),
	}

	if secs := expiresIn(r["expires_in"]); secs > 0 {
		token.ExpiresIn = secs
		token.Expiry = time.Now().Add(time.Duration(secs) * time.Second)
	}

	return token.WithExtra(map[string]any(r))
}

func expiresIn(v any) int64 {
	switch val := v.(type) {
	case float64:
		return int64(val)
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0
		}
		return n
	case nil:
		return 0
	default:
		n, err := strconv.ParseInt(fmt.Sprint(val), 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
}
