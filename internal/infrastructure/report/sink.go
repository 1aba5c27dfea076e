// Package report delivers final intelligence reports to the external
// collector endpoint.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"honeypot-lab/internal/domain/models"
	"honeypot-lab/pkg/logger"
)

// Sink posts intelligence reports over HTTP with fixed-backoff retries
type Sink struct {
	url        string
	retries    int
	backoff    time.Duration
	httpClient *http.Client
	logger     *logger.Logger
}

// Config holds report sink settings
type Config struct {
	URL     string
	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

// NewSink creates a report sink
func NewSink(cfg Config, log *logger.Logger) *Sink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	return &Sink{
		url:        cfg.URL,
		retries:    cfg.Retries,
		backoff:    cfg.Backoff,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.WithComponent("report-sink"),
	}
}

// Submit posts one report, retrying transient failures with a fixed
// backoff. The last error is returned after the retry budget runs out.
func (s *Sink) Submit(ctx context.Context, report *models.IntelligenceReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.backoff):
			}
			s.logger.Debug().Int("attempt", attempt).Str("session_id", report.SessionID).Msg("retrying report delivery")
		}

		lastErr = s.post(ctx, payload)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("report delivery failed after %d attempts: %w", s.retries+1, lastErr)
}

func (s *Sink) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("collector returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
