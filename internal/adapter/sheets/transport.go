// Package sheets posts flattened survey rows to a Google Apps Script web app.
package sheets

import (
	"context"
	"fmt"
	"time"

	"pulse-survey/internal/domain"
	"pulse-survey/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Transport sends one JSON row per submission. The script reads the raw body,
// so the request is labelled text/plain to keep it a simple request.
type Transport struct {
	url     string
	timeout time.Duration
}

// NewTransport returns a transport for the given web app URL. A zero timeout
// waits for the request to finish or the context to expire.
func NewTransport(url string, timeout time.Duration) (*Transport, error) {
	if url == "" {
		return nil, fmt.Errorf("sheets URL cannot be empty")
	}
	return &Transport{url: url, timeout: timeout}, nil
}

var _ domain.Transport = (*Transport)(nil)

// Send reports only local faults: encoding, connection, and timeout errors.
// Whatever status the script answers with counts as delivered.
func (t *Transport) Send(ctx context.Context, payload domain.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := payload.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	agent := fiber.Post(t.url)
	agent.ContentType(fiber.MIMETextPlainCharsetUTF8)
	agent.Body(body)
	if timeout := t.effectiveTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}

	start := time.Now()
	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("failed to post payload: %w", errs[0])
	}

	logger.Get().Info("Payload dispatched",
		zap.Int("status", code),
		zap.Int("columns", payload.Len()),
		zap.Duration("latency", time.Since(start)))
	return nil
}

// effectiveTimeout is the configured timeout, shortened to the context deadline.
func (t *Transport) effectiveTimeout(ctx context.Context) time.Duration {
	timeout := t.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			remaining = time.Millisecond
		}
		if timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}
