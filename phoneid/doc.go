// Package phoneid is a client for the Phone.id identity API.
//
// It builds the login URL that starts the authorization code flow, exchanges the
// returned code for an access token and fetches the authenticated user's profile.
// Transport work is delegated to an apiclient.Requester, which can be replaced
// with a test double through WithRequester.
//
// # Features
//
//   - Authorize URL building with ordered, overridable defaults
//   - Authorization code exchange with optional token persistence
//   - Profile retrieval with bearer token authentication
//   - Environment configuration (PHONEID_* variables) through LoadConfig
//   - oauth2.TokenSource view of the current session token
//
// # Quick Start
//
//	client, err := phoneid.New("client-id", "client-secret",
//	    phoneid.WithRedirectURI("https://example.com/return"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	http.Redirect(w, r, client.AuthorizeURL(), http.StatusFound)
//
//	// in the redirect handler
//	if _, err := client.ExchangeCode(ctx, r.URL.Query().Get("code"), true); err != nil {
//	    log.Fatal(err)
//	}
//	me, err := client.GetMe(ctx)
//
// # Errors
//
// New returns ErrMissingClientID for an empty client ID. Request failures are
// returned unchanged from the apiclient package (*apiclient.NetworkError,
// *apiclient.ServerError, *apiclient.ClientError). Nothing is retried.
package phoneid
