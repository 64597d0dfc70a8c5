package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{200, nil},
		{204, nil},
		{101, ErrUnexpectedResponse},
		{302, ErrUnexpectedResponse},
		{400, ErrInvalidRequest},
		{402, ErrMessageRejected},
		{403, ErrAccessDenied},
		{404, ErrResourceNotFound},
		{422, ErrMailProviderError},
		{429, ErrSendingQuotaExceeded},
		{500, ErrInternalError},
		{502, ErrBadGateway},
		{503, ErrServiceUnavailable},
		{401, ErrAPI},
		{504, ErrAPI},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, KindForStatus(tt.status))
		})
	}
}

func TestError_Message(t *testing.T) {
	serverErr := "provider said no"
	err := newError(422, map[string]any{
		"type":         "api_error",
		"message":      "Sync failed",
		"server_error": serverErr,
	})
	assert.Equal(t, "mail provider error (status 422): Sync failed: provider said no", err.Error())

	bare := newError(404, nil)
	assert.Equal(t, "resource not found (status 404): Not Found", bare.Error())
	assert.Nil(t, bare.ServerError)

	wrapped := fmt.Errorf("loading event: %w", bare)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, errors.Is(wrapped, ErrAccessDenied))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"quota", newError(429, nil), true},
		{"bad gateway", newError(502, nil), true},
		{"unavailable", newError(503, nil), true},
		{"timeout", &TimeoutError{Method: "GET", URL: "/events", Err: errors.New("deadline")}, true},
		{"wrapped timeout", fmt.Errorf("listing: %w", &TimeoutError{Err: errors.New("deadline")}), true},
		{"internal error", newError(500, nil), false},
		{"not found", newError(404, nil), false},
		{"transport", &TransportError{Method: "GET", URL: "/events", Err: errors.New("refused")}, false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
