// Package urlresolver expands shortened URLs by following redirects.
package urlresolver

import (
	"context"
	"net/http"
	"time"

	"honeypot-lab/pkg/logger"
)

// Resolver follows redirect chains to find a short URL's destination
type Resolver struct {
	httpClient *http.Client
	logger     *logger.Logger
}

// New creates a resolver with the given per-request timeout
func New(timeout time.Duration, log *logger.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Resolver{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		logger: log.WithComponent("url-resolver"),
	}
}

// Resolve issues a HEAD request and reports the final URL after
// redirects. The body is never fetched; HEAD is enough for every
// shortener that matters.
func (r *Resolver) Resolve(ctx context.Context, shortURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, shortURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	final := resp.Request.URL.String()
	if final != shortURL {
		r.logger.Debug().Str("short", shortURL).Str("expanded", final).Msg("expanded short URL")
	}
	return final, nil
}
