package util

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"
)

func NewHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// HTTPError is a non-2xx upstream response.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.URL)
}

// Retry runs fn up to 1+retries times with exponential backoff starting
// at initial and doubling per attempt. The last failure is returned
// unchanged. Each retry is logged with the attempt number and the delay
// it waited.
func Retry(ctx context.Context, retries int, initial time.Duration, fn func() error) error {
	if retries < 0 {
		retries = 0
	}
	var lastErr error
	delay := initial
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			log.Printf("retry attempt %d/%d after %s: %v", attempt, retries, delay, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return lastErr
}
