package normalize

import (
	"net/http"
)

// userAgentTransport wraps an http.RoundTripper and adds User-Agent and
// auth headers to every request.
type userAgentTransport struct {
	http.RoundTripper
	userAgent string
	apiKey    string
}

// RoundTrip executes a single HTTP transaction, adding the standard headers.
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", t.userAgent)
	if t.apiKey != "" {
		clonedReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	return t.RoundTripper.RoundTrip(clonedReq)
}
