package normalize

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a normalization failure for retry purposes.
type Kind int

// Error kinds, from most to least retryable.
const (
	// KindTransient covers network errors and 5xx responses; retry with
	// backoff.
	KindTransient Kind = iota

	// KindRateLimited covers 429 responses; retry with backoff.
	KindRateLimited

	// KindAuth covers 401/403 responses; never retried, the API key is
	// wrong or expired.
	KindAuth

	// KindPermanent covers everything else (malformed request, payload
	// rejected); never retried.
	KindPermanent
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindRateLimited:
		return "rate-limited"
	case KindAuth:
		return "auth"
	default:
		return "permanent"
	}
}

// APIError is a non-2xx response from the normalization service.
type APIError struct {
	Status    int
	RequestID string
	Message   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("normalize: API error [status %d, request %s]: %s", e.Status, e.RequestID, e.Message)
}

// Kind classifies the response status.
func (e *APIError) Kind() Kind {
	switch {
	case e.Status == 429:
		return KindRateLimited
	case e.Status == 401 || e.Status == 403:
		return KindAuth
	case e.Status >= 500:
		return KindTransient
	default:
		return KindPermanent
	}
}

// Classify determines the retry kind of an arbitrary error from a
// normalization attempt. Context cancellation is permanent: the caller
// abandoned the request.
func Classify(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindPermanent
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransient
	}
	return KindPermanent
}

// Retryable reports whether an error kind is worth another attempt.
func Retryable(err error) bool {
	switch Classify(err) {
	case KindTransient, KindRateLimited:
		return true
	default:
		return false
	}
}
