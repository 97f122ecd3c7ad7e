package indexer

import (
	"errors"
	"fmt"
)

// Error codes for categorizing indexer errors
const (
	ErrCodeSearch        = "SEARCH_ERROR"
	ErrCodeConfiguration = "CONFIG_ERROR"
	ErrCodeNetwork       = "NETWORK_ERROR"
	ErrCodeParse         = "PARSE_ERROR"
	ErrCodeTemporary     = "TEMPORARY_ERROR"
)

// IndexerError represents a categorized error from an indexer operation.
type IndexerError struct {
	Code        string // Error category code
	Message     string // Human-readable message
	IndexerName string // Name of the affected indexer
	StatusCode  int    // HTTP status of the failed request, 0 if none was received
	Retryable   bool   // Whether the operation can be retried
	Cause       error  // Underlying error
}

// Error implements the error interface.
func (e *IndexerError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s, status: %d", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.IndexerName != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.IndexerName, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying error.
func (e *IndexerError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for errors.Is().
func (e *IndexerError) Is(target error) bool {
	var t *IndexerError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Common error instances for comparison
var (
	ErrSearch        = &IndexerError{Code: ErrCodeSearch, Message: "search failed"}
	ErrConfiguration = &IndexerError{Code: ErrCodeConfiguration, Message: "configuration error"}
	ErrNetwork       = &IndexerError{Code: ErrCodeNetwork, Message: "network error"}
	ErrParse         = &IndexerError{Code: ErrCodeParse, Message: "parse error"}
	ErrTemporary     = &IndexerError{Code: ErrCodeTemporary, Message: "temporary error"}
)

// NewSearchError creates an error for a search request the site answered with a
// non-2xx status.
func NewSearchError(indexerName string, statusCode int) *IndexerError {
	return &IndexerError{
		Code:        ErrCodeSearch,
		Message:     "request failed",
		IndexerName: indexerName,
		StatusCode:  statusCode,
		Retryable:   statusCode >= 500 || statusCode == 429,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(indexerName string, message string) *IndexerError {
	return &IndexerError{
		Code:        ErrCodeConfiguration,
		Message:     message,
		IndexerName: indexerName,
		Retryable:   false,
	}
}

// NewNetworkError creates a network error.
func NewNetworkError(indexerName string, cause error) *IndexerError {
	return &IndexerError{
		Code:        ErrCodeNetwork,
		Message:     "network error",
		IndexerName: indexerName,
		Retryable:   true,
		Cause:       cause,
	}
}

// NewParseError creates a parsing error.
func NewParseError(indexerName string, message string, cause error) *IndexerError {
	return &IndexerError{
		Code:        ErrCodeParse,
		Message:     message,
		IndexerName: indexerName,
		Retryable:   false, // the page itself is unusable
		Cause:       cause,
	}
}

// NewRateLimitError creates an error for a query refused by the local limiter.
func NewRateLimitError(indexerName string) *IndexerError {
	return &IndexerError{
		Code:        ErrCodeTemporary,
		Message:     "query limit reached",
		IndexerName: indexerName,
		Retryable:   true,
	}
}

// IsRetryable returns whether the error is retryable.
func IsRetryable(err error) bool {
	var indexerErr *IndexerError
	if errors.As(err, &indexerErr) {
		return indexerErr.Retryable
	}
	return false
}

// IsNetworkError returns whether the error is a network error.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// StatusCode extracts the HTTP status carried by an error, or 0.
func StatusCode(err error) int {
	var indexerErr *IndexerError
	if errors.As(err, &indexerErr) {
		return indexerErr.StatusCode
	}
	return 0
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var indexerErr *IndexerError
	if errors.As(err, &indexerErr) {
		return indexerErr.Code
	}
	return ""
}
