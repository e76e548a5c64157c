package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/local/vectorcheck/internal/fetch"
)

// fetchErrorStatus maps a fetch failure to the HTTP status and detail body
// the endpoint answers with.
func fetchErrorStatus(err error) (int, string) {
	var timeoutErr *fetch.TimeoutError
	if errors.As(err, &timeoutErr) {
		return http.StatusRequestTimeout, "PDF download timed out"
	}

	var tooLarge *fetch.TooLargeError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "PDF file too large"
	}

	var connErr *fetch.ConnectionError
	if errors.As(err, &connErr) {
		return http.StatusBadGateway, fmt.Sprintf("Failed to connect to PDF source: %v", connErr.Err)
	}

	var httpErr *fetch.HTTPStatusError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusForbidden:
			return http.StatusForbidden, "Access to source PDF forbidden or link expired"
		case http.StatusNotFound:
			return http.StatusNotFound, "Source PDF not found"
		case http.StatusRequestTimeout:
			return http.StatusRequestTimeout, "PDF download timed out"
		case http.StatusRequestEntityTooLarge:
			return http.StatusRequestEntityTooLarge, "PDF file too large"
		default:
			return http.StatusBadRequest, fmt.Sprintf("Failed to download PDF: HTTP %d", httpErr.StatusCode)
		}
	}

	return http.StatusBadRequest, fmt.Sprintf("Failed to download PDF: %v", err)
}
