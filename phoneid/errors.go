package phoneid

import "errors"

// ConfigurationError reports invalid constructor input. It is purely local:
// no request is made when it is returned.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "phoneid: " + e.Reason
}

// ErrMissingClientID is returned by New when the client ID is empty.
var ErrMissingClientID = &ConfigurationError{Reason: "required clientID parameter is missing"}

// ErrNoAccessToken is returned by the TokenSource when no access token is stored.
var ErrNoAccessToken = errors.New("phoneid: no access token")
