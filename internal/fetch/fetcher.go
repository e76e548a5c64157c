package fetch

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/vectorcheck/internal/metrics"
)

// Config defines download policy.
type Config struct {
	ConnectTimeout     time.Duration
	ReadTimeout        time.Duration
	MaxBytes           int64
	MaxAttempts        int
	RetryBaseDelay     time.Duration
	RetryBackoffFactor float64
	AllowS3            bool
}

// Fetcher downloads PDFs to temp files under the configured policy.
type Fetcher struct {
	conf    Config
	client  *http.Client
	breaker *Breaker
}

// New creates a Fetcher. client may be nil, in which case one is built from
// the config's connect timeout. breaker may be nil to disable per-host
// cooldowns.
func New(conf Config, client *http.Client, breaker *Breaker) *Fetcher {
	if conf.MaxAttempts <= 0 {
		conf.MaxAttempts = 3
	}
	if conf.RetryBaseDelay <= 0 {
		conf.RetryBaseDelay = 500 * time.Millisecond
	}
	if conf.RetryBackoffFactor < 1 {
		conf.RetryBackoffFactor = 2.0
	}
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: conf.ConnectTimeout}).DialContext,
			},
		}
	}
	return &Fetcher{conf: conf, client: client, breaker: breaker}
}

// ValidateURL checks that raw is a usable document source.
func (f *Fetcher) ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("invalid URL format")
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return errors.New("invalid URL format")
		}
		return nil
	case "s3":
		if !f.conf.AllowS3 {
			return errors.New("s3 sources are not enabled")
		}
		return nil
	default:
		return errors.New("invalid URL format")
	}
}

// FetchToTemp downloads the document at rawURL into a temp file and returns
// its path together with a cleanup func that removes it. The byte ceiling is
// enforced while streaming, not from the Content-Length header alone.
func (f *Fetcher) FetchToTemp(ctx context.Context, rawURL string) (string, func(), error) {
	if strings.HasPrefix(rawURL, "s3://") {
		return f.fetchS3ToTemp(ctx, rawURL)
	}
	return f.fetchHTTPToTemp(ctx, rawURL)
}

func (f *Fetcher) fetchHTTPToTemp(ctx context.Context, rawURL string) (string, func(), error) {
	host := hostOf(rawURL)
	if f.breaker != nil && f.breaker.IsOpen(ctx, host) {
		metrics.ObserveDownload("cooldown", 0)
		return "", nil, &ConnectionError{URL: rawURL, Err: errors.New("source host in cooldown")}
	}

	var lastErr error
	delay := f.conf.RetryBaseDelay

	for attempt := 1; attempt <= f.conf.MaxAttempts; attempt++ {
		start := time.Now()
		path, err := f.downloadOnce(ctx, rawURL)
		dur := time.Since(start)

		if err == nil {
			if f.breaker != nil {
				f.breaker.Close(ctx, host)
			}
			metrics.ObserveDownload("success", dur)
			return path, func() { _ = os.Remove(path) }, nil
		}
		lastErr = err

		var timeoutErr *TimeoutError
		if errors.As(err, &timeoutErr) {
			metrics.ObserveDownload("timeout", dur)
			return "", nil, err
		}
		var tooLarge *TooLargeError
		if errors.As(err, &tooLarge) {
			metrics.ObserveDownload("too_large", dur)
			return "", nil, err
		}

		retryable := false
		var httpErr *HTTPStatusError
		var connErr *ConnectionError
		switch {
		case errors.As(err, &httpErr):
			retryable = isTransientStatus(httpErr.StatusCode)
		case errors.As(err, &connErr):
			retryable = true
		}
		if !retryable {
			metrics.ObserveDownload("failed", dur)
			return "", nil, err
		}

		if f.breaker != nil {
			f.breaker.Open(ctx, host)
		}
		if attempt == f.conf.MaxAttempts {
			break
		}

		log.Warn().Err(err).Int("attempt", attempt).Str("url", rawURL).Dur("delay", delay).Msg("transient download failure, retrying")
		select {
		case <-ctx.Done():
			metrics.ObserveDownload("cancelled", dur)
			return "", nil, &TimeoutError{URL: rawURL}
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * f.conf.RetryBackoffFactor)
	}

	metrics.ObserveDownload("failed", 0)
	return "", nil, lastErr
}

// downloadOnce performs a single GET and streams the body to a temp file.
func (f *Fetcher) downloadOnce(ctx context.Context, rawURL string) (string, error) {
	rctx := ctx
	var cancel context.CancelFunc
	if f.conf.ReadTimeout > 0 {
		rctx, cancel = context.WithTimeout(ctx, f.conf.ReadTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(rctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &ConnectionError{URL: rawURL, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(rctx, err) {
			return "", &TimeoutError{URL: rawURL}
		}
		return "", &ConnectionError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPStatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	// Reject early when the server declares an oversized payload; the
	// streamed count below is the enforcement that actually matters.
	if f.conf.MaxBytes > 0 && resp.ContentLength > f.conf.MaxBytes {
		return "", &TooLargeError{Limit: f.conf.MaxBytes, URL: rawURL}
	}

	tmp, err := os.CreateTemp("", "pdfdl-*.pdf")
	if err != nil {
		return "", err
	}

	written, err := copyLimited(tmp, resp.Body, f.conf.MaxBytes)
	cerr := tmp.Close()
	if err != nil {
		_ = os.Remove(tmp.Name())
		var tooLarge *TooLargeError
		if errors.As(err, &tooLarge) {
			tooLarge.URL = rawURL
			return "", tooLarge
		}
		if isTimeout(rctx, err) {
			return "", &TimeoutError{URL: rawURL}
		}
		return "", &ConnectionError{URL: rawURL, Err: err}
	}
	if cerr != nil {
		_ = os.Remove(tmp.Name())
		return "", cerr
	}

	metrics.AddDownloadBytes(written)
	log.Debug().Str("url", rawURL).Int64("bytes", written).Str("file", tmp.Name()).Msg("downloaded pdf to temp")
	return tmp.Name(), nil
}

// copyLimited streams src to dst, failing with TooLargeError once more than
// limit bytes have been read. limit <= 0 disables the ceiling.
func copyLimited(dst io.Writer, src io.Reader, limit int64) (int64, error) {
	if limit <= 0 {
		return io.Copy(dst, src)
	}
	written, err := io.Copy(dst, io.LimitReader(src, limit+1))
	if err != nil {
		return written, err
	}
	if written > limit {
		return written, &TooLargeError{Limit: limit}
	}
	return written, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func hostOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return strings.ToLower(u.Host)
	}
	return rawURL
}
