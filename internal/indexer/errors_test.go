package indexer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchErrorMessage(t *testing.T) {
	err := NewSearchError("Tokyo Toshokan", 503)
	assert.Equal(t, "[SEARCH_ERROR] Tokyo Toshokan: request failed, status: 503", err.Error())
	assert.True(t, err.Retryable)

	notFound := NewSearchError("Tokyo Toshokan", 404)
	assert.False(t, notFound.Retryable)
}

func TestErrorMatching(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("latest: %w", NewNetworkError("site", cause))

	assert.True(t, IsNetworkError(wrapped))
	assert.True(t, IsRetryable(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, ErrCodeNetwork, GetErrorCode(wrapped))
	assert.Equal(t, 0, StatusCode(wrapped))

	assert.False(t, IsNetworkError(NewParseError("site", "bad html", nil)))
	assert.Equal(t, "", GetErrorCode(cause))
	assert.False(t, IsRetryable(cause))
}

func TestStatusCode(t *testing.T) {
	err := fmt.Errorf("search: %w", NewSearchError("site", 429))
	assert.Equal(t, 429, StatusCode(err))
	assert.True(t, IsRetryable(err))
}
