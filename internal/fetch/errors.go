package fetch

import "fmt"

// TimeoutError means the download did not complete within the read timeout.
type TimeoutError struct {
	URL string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("download timed out: %s", e.URL)
}

// ConnectionError means the source could not be reached at all.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to %s failed: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// HTTPStatusError means the source answered with a non-success status.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// TooLargeError means the payload exceeded the configured byte ceiling.
type TooLargeError struct {
	Limit int64
	URL   string
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("payload from %s exceeds %d byte limit", e.URL, e.Limit)
}

// isTransientStatus reports whether a download should be retried for the
// given HTTP status.
func isTransientStatus(code int) bool {
	switch code {
	case 429, 502, 503, 504:
		return true
	}
	return false
}
