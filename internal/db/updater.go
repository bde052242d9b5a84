package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"blagbl/internal/config"
	"blagbl/internal/metrics"

	"github.com/cenkalti/backoff/v5"
)

// StartUpdater fetches and reloads the dataset every interval until ctx is done.
func (m *Manager) StartUpdater(ctx context.Context, interval time.Duration) {
	m.log.Info("starting blag updater", "interval", interval.String())
	ticker := m.clock.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				m.log.Info("performing scheduled blag update")
				if err := m.Update(ctx); err != nil {
					m.log.Error("failed to update blag database", "err", err)
				}
			case <-ctx.Done():
				m.log.Info("blag updater stopped")
				return
			}
		}
	}()
}

// Update downloads yesterday's snapshot and reloads it.
// The previous index keeps serving when either step fails.
func (m *Manager) Update(ctx context.Context) error {
	path, err := m.Fetch(ctx, time.Time{})
	if err != nil {
		return err
	}
	return m.Load(path)
}

// Fetch downloads the snapshot published for day (yesterday when zero) to the configured
// database path and returns that path. The file is replaced only after a complete download.
func (m *Manager) Fetch(ctx context.Context, day time.Time) (string, error) {
	if day.IsZero() {
		day = m.clock.Now().AddDate(0, 0, -1)
	}
	url := DatedURL(m.cfg.BaseURL, day)
	dest := m.cfg.Database
	if dest == "" {
		dest = filepath.Join(m.cfg.StorageDir, config.DefaultArchiveName)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	tmp := dest + tmpExtension
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		m.log.Info("downloading blag database", "url", url, "attempt", attempt)
		return struct{}{}, m.downloadFile(ctx, url, tmp)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(max(m.cfg.FetchRetries, 1))),
		backoff.WithNotify(func(err error, next time.Duration) {
			m.log.Warn("blag download failed, retrying", "url", url, "err", err, "in", next)
		}),
	)
	if err != nil {
		metrics.Fetches.WithLabelValues("error").Inc()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		metrics.Fetches.WithLabelValues("error").Inc()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	metrics.Fetches.WithLabelValues("ok").Inc()
	m.log.Info("successfully downloaded", "file", dest)
	return dest, nil
}

// statusError is a non-200 response.
type statusError struct {
	URL  string
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: received status code %d", e.URL, e.Code)
}

// downloadFile saves the body of url to destPath. Client errors are permanent.
func (m *Manager) downloadFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("could not create request: %w", err))
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return backoff.Permanent(err)
		}
		return fmt.Errorf("http request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			m.log.Warn("failed to close response body", "err", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		serr := &statusError{URL: url, Code: resp.StatusCode}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(serr)
		}
		return serr
	}

	out, err := os.Create(destPath)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("could not create temporary file: %w", err))
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(destPath)
		return fmt.Errorf("could not write archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
