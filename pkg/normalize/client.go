package normalize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dixieflatline76/Visum/util/log"
)

// Network timeouts for normalization calls. Uploads carry a full-resolution
// crop payload, so the request timeout is generous.
const (
	requestTimeout        = 120 * time.Second
	dialerTimeout         = 15 * time.Second
	tlsHandshakeTimeout   = 10 * time.Second
	responseHeaderTimeout = 30 * time.Second
	keepAlive             = 30 * time.Second
)

// requestsPerSecond paces outgoing calls below the service's documented
// rate limit; bursts of burstSize are allowed.
const (
	requestsPerSecond = 1
	burstSize         = 2
)

const userAgent = "Visum/1.0"

// Client is the HTTP implementation of Normalizer. It paces requests with
// a local rate limiter and retries transient and rate-limited failures
// with bounded exponential backoff.
type Client struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	policy     RetryPolicy
}

// NewClient creates a Client for the given service endpoint.
func NewClient(endpoint, apiKey string) *Client {
	robustClient := &http.Client{
		Timeout: requestTimeout,
		Transport: &userAgentTransport{
			RoundTripper: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   dialerTimeout,
					KeepAlive: keepAlive,
				}).DialContext,
				ResponseHeaderTimeout: responseHeaderTimeout,
				TLSHandshakeTimeout:   tlsHandshakeTimeout,
			},
			userAgent: userAgent,
			apiKey:    apiKey,
		},
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: robustClient,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), burstSize),
		policy:     DefaultRetryPolicy(),
	}
}

// WithRetryPolicy overrides the default retry policy.
func (c *Client) WithRetryPolicy(policy RetryPolicy) *Client {
	c.policy = policy
	return c
}

// ReplaceBackground uploads the photo and returns the normalized payload.
// The photo content is unchanged except for background (and, when
// requested, attire); failures are classified and transient ones retried
// before the terminal error is returned.
func (c *Client) ReplaceBackground(ctx context.Context, photo []byte, req Request) ([]byte, error) {
	if len(photo) == 0 {
		return nil, fmt.Errorf("normalize: empty photo payload")
	}
	if req.Attire != "" && !req.Attire.Valid() {
		return nil, fmt.Errorf("normalize: unsupported attire %q", req.Attire)
	}

	var result []byte
	err := retry(ctx, c.policy, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		payload, err := c.doRequest(ctx, photo, req)
		if err != nil {
			log.Printf("normalize attempt failed (%s): %v", Classify(err), err)
			return err
		}
		result = payload
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// doRequest performs one multipart upload and reads back the normalized
// image payload.
func (c *Client) doRequest(ctx context.Context, photo []byte, req Request) ([]byte, error) {
	requestID := uuid.NewString()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("photo", "photo"+extensionFor(req.ContentType))
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := part.Write(photo); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if err := mw.WriteField("background_color", req.BackgroundColor); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if req.Attire != AttireNone {
		if err := mw.WriteField("attire", string(req.Attire)); err != nil {
			return nil, fmt.Errorf("building upload form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("normalization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Status:    resp.StatusCode,
			RequestID: requestID,
			Message:   apiMessage(resp.Body),
		}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading normalized image: %w", err)
	}
	if len(payload) == 0 {
		return nil, &APIError{Status: resp.StatusCode, RequestID: requestID, Message: "empty response body"}
	}
	return payload, nil
}

// apiMessage extracts the service's error message, tolerating non-JSON
// bodies.
func apiMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}
	var parsed struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &parsed) == nil && parsed.Error != "" {
		return parsed.Error
	}
	return string(raw)
}

func extensionFor(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}
