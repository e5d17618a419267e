package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	maxErrorBody  = 4096
	maxRetryAfter = 5 * time.Second
)

// statusError is a non-2xx answer from OpenRouteService.
type statusError struct {
	Code       int
	Body       string
	RetryAfter time.Duration
}

func (e *statusError) Error() string {
	if msg := e.orsMessage(); msg != "" {
		return fmt.Sprintf("ors status %d: %s", e.Code, msg)
	}
	return fmt.Sprintf("ors status %d: %s", e.Code, e.Body)
}

// orsMessage pulls error.message out of an ORS error body. Some errors
// (auth, quota) carry a plain string instead and yield "".
func (e *statusError) orsMessage() string {
	var body struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err != nil {
		return ""
	}
	return body.Error.Message
}

// post sends one JSON request. Responses with status >= 400 come back as
// *statusError with the body already drained.
func (o *ORSRoutingProvider) post(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json, application/geo+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 400 {
		return resp, nil
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, &statusError{
		Code:       resp.StatusCode,
		Body:       strings.TrimSpace(string(b)),
		RetryAfter: retryAfter(resp.Header),
	}
}

// postWithRetry resends the request on network errors, 429 and 5xx with
// doubling backoff, up to maxAttempts. A Retry-After hint longer than the
// current backoff is honored, capped at maxRetryAfter.
func (o *ORSRoutingProvider) postWithRetry(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	backoff := o.backoff

	for attempt := 1; ; attempt++ {
		resp, err := o.post(ctx, url, payload)
		if err == nil {
			return resp, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		wait, ok := retryDelay(err, backoff)
		if !ok || attempt >= o.maxAttempts {
			return nil, err
		}
		if err := sleep(ctx, wait); err != nil {
			return nil, err
		}
		backoff *= 2
	}
}

func retryDelay(err error, backoff time.Duration) (time.Duration, bool) {
	var se *statusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
		default:
			return 0, false
		}
		if se.RetryAfter > backoff {
			return min(se.RetryAfter, maxRetryAfter), true
		}
		return backoff, true
	}

	var netErr net.Error
	return backoff, errors.As(err, &netErr)
}

// retryAfter reads a Retry-After header given in seconds. HTTP dates are
// ignored.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
