package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrValidation,
		ErrNetwork,
		ErrFormat,
		ErrNoneAvailable,
		ErrStorage,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		message     string
		expectedMsg string
	}{
		{
			name:        "with field",
			field:       "text",
			message:     "must not be empty",
			expectedMsg: "validation failed for text: must not be empty",
		},
		{
			name:        "without field",
			field:       "",
			message:     "general validation error",
			expectedMsg: "validation failed: general validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrValidation)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
			assert.Equal(t, tt.message, validation.Message)
		})
	}
}

func TestNetworkError(t *testing.T) {
	tests := []struct {
		name        string
		service     string
		reason      string
		expectedMsg string
	}{
		{
			name:        "with reason",
			service:     "quote-source",
			reason:      "connection refused",
			expectedMsg: `service "quote-source" unreachable: connection refused`,
		},
		{
			name:        "without reason",
			service:     "quote-source",
			expectedMsg: `service "quote-source" unreachable`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNetworkError(tt.service, tt.reason)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNetwork)

			var network *NetworkError
			require.ErrorAs(t, err, &network)
			assert.Equal(t, tt.service, network.Service)
		})
	}
}

func TestFormatError(t *testing.T) {
	err := NewFormatError("top level must be an array")

	assert.Equal(t, "invalid document format: top level must be an array", err.Error())
	require.ErrorIs(t, err, ErrFormat)

	var format *FormatError
	require.ErrorAs(t, err, &format)
	assert.Equal(t, "top level must be an array", format.Reason)
}

func TestStorageError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := NewStorageError("quotes", cause)

		assert.Equal(t, `storage failure for key "quotes": disk full`, err.Error())
		require.ErrorIs(t, err, ErrStorage)
		require.ErrorIs(t, err, cause)
	})

	t.Run("without cause", func(t *testing.T) {
		err := NewStorageError("lastFilter", nil)

		assert.Equal(t, `storage failure for key "lastFilter"`, err.Error())
		require.ErrorIs(t, err, ErrStorage)
	})
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsValidation with ValidationError", NewValidationError("text", "empty"), IsValidation, true},
		{"IsValidation with wrapped", fmt.Errorf("adding: %w", ErrValidation), IsValidation, true},
		{"IsValidation with other error", ErrFormat, IsValidation, false},
		{"IsValidation with nil", nil, IsValidation, false},

		{"IsNetwork with NetworkError", NewNetworkError("remote", "timeout"), IsNetwork, true},
		{"IsNetwork with wrapped", fmt.Errorf("fetching: %w", ErrNetwork), IsNetwork, true},
		{"IsNetwork with other error", ErrStorage, IsNetwork, false},

		{"IsFormat with FormatError", NewFormatError("bad"), IsFormat, true},
		{"IsFormat with other error", ErrValidation, IsFormat, false},

		{"IsNoneAvailable with sentinel", ErrNoneAvailable, IsNoneAvailable, true},
		{"IsNoneAvailable with wrapped", fmt.Errorf("category %q: %w", "x", ErrNoneAvailable), IsNoneAvailable, true},
		{"IsNoneAvailable with other error", ErrFormat, IsNoneAvailable, false},

		{"IsStorage with StorageError", NewStorageError("quotes", nil), IsStorage, true},
		{"IsStorage with other error", ErrNetwork, IsStorage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}
