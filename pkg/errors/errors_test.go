package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	assert.Equal(t, "remote error (code 404): not found", Remote(http.StatusNotFound, "not found").Error())
	assert.Equal(t, "input error: empty query", New(ErrorTypeInput, "empty query").Error())
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := fmt.Errorf("fetch: %w", Wrap(ErrorTypeNetwork, cause, "request failed"))

	assert.True(t, Is(err, cause))
	assert.Equal(t, ErrorTypeNetwork, TypeOf(err))

	var appErr *Error
	assert.True(t, As(err, &appErr))
	assert.Equal(t, "request failed", appErr.Message)
}

func TestIsMatchesByType(t *testing.T) {
	sentinel := New(ErrorTypeConfiguration, "")
	err := fmt.Errorf("startup: %w", New(ErrorTypeConfiguration, "access key missing"))

	assert.True(t, Is(err, sentinel))
	assert.False(t, Is(err, New(ErrorTypeInput, "")))
	assert.True(t, Is(Remote(500, "boom"), Remote(500, "")))
	assert.False(t, Is(Remote(500, "boom"), Remote(404, "")))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorType(""), TypeOf(nil))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(fmt.Errorf("plain")))
	assert.Equal(t, ErrorTypeParsing, TypeOf(New(ErrorTypeParsing, "bad json")))
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want bool
	}{
		{"network", New(ErrorTypeNetwork, "reset"), true},
		{"server error", Remote(http.StatusBadGateway, "bad gateway"), true},
		{"not found", Remote(http.StatusNotFound, "missing"), false},
		{"forbidden", Remote(http.StatusForbidden, "denied"), false},
		{"parsing", New(ErrorTypeParsing, "bad json"), false},
		{"configuration", New(ErrorTypeConfiguration, "no key"), false},
		{"storage", New(ErrorTypeStorage, "disk full"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Retryable())
		})
	}
}
