package gemini

import "errors"

// Classified extraction failures. Callers branch on these with errors.Is;
// the ingestion engine turns all of them into the queued-for-retry state
// but surfaces the kind to the user.
var (
	// ErrInvalidCredential means the API rejected the key (401/403).
	ErrInvalidCredential = errors.New("gemini: invalid credential")

	// ErrNetworkUnavailable covers transport failures and timeouts.
	ErrNetworkUnavailable = errors.New("gemini: network unavailable")

	// ErrServiceOverloaded covers rate limiting and server-side errors.
	ErrServiceOverloaded = errors.New("gemini: service overloaded")

	// ErrMalformedResponse means the service answered but the body did not
	// contain the expected JSON shape.
	ErrMalformedResponse = errors.New("gemini: malformed response")
)
