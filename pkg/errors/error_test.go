package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name    string
		err     *Error
		code    ErrorCode
		message string
		cause   error
	}{
		{"New", New(ErrCodeMissingParameter, "bars path is required"), ErrCodeMissingParameter, "bars path is required", nil},
		{"Newf", Newf(ErrCodeUnknownStrategy, "kind %s not found", "momentum"), ErrCodeUnknownStrategy, "kind momentum not found", nil},
		{"Wrap", Wrap(ErrCodeStoreUnavailable, "failed to open store", cause), ErrCodeStoreUnavailable, "failed to open store", cause},
		{"Wrapf", Wrapf(ErrCodeQueryFailed, cause, "failed to read %s", "decisions"), ErrCodeQueryFailed, "failed to read decisions", cause},
		{"Wrap nil cause", Wrap(ErrCodeInvalidParameter, "bad", nil), ErrCodeInvalidParameter, "bad", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Message)
			assert.Equal(t, tt.cause, tt.err.Unwrap())
		})
	}
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "[109 validation] bars path is required", New(ErrCodeMissingParameter, "bars path is required").Error())
	assert.Equal(t,
		"[203 data] failed to open store: connection refused",
		Wrap(ErrCodeStoreUnavailable, "failed to open store", errors.New("connection refused")).Error(),
	)
	assert.Equal(t,
		"[406 strategy] failed to restore capm: [404 strategy] major version mismatch",
		Wrap(ErrCodeStateDecodeFailed, "failed to restore capm", New(ErrCodeVersionMismatch, "major version mismatch")).Error(),
	)
}

func TestCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeUnknown:               "general",
		ErrCodeInvalidConfiguration:  "validation",
		ErrCodeQueryFailed:           "data",
		ErrCodeDuplicateStrategyName: "strategy",
		ErrCodeCollectorFailed:       "market_data",
		ErrCodeHandlerFailed:         "callback",
		ErrorCode(550):               "unknown",
	}

	for code, category := range tests {
		assert.Equal(t, category, code.Category(), "code %d", code)
	}
}

func TestCodes(t *testing.T) {
	inner := New(ErrCodeVersionMismatch, "major version mismatch")
	restored := Wrap(ErrCodeStateDecodeFailed, "failed to restore state", inner)
	wrapped := fmt.Errorf("start: %w", restored)

	assert.Equal(t, []ErrorCode{ErrCodeStateDecodeFailed, ErrCodeVersionMismatch}, Codes(wrapped))
	assert.Equal(t, ErrCodeStateDecodeFailed, GetCode(wrapped))

	assert.True(t, HasCode(wrapped, ErrCodeStateDecodeFailed))
	assert.True(t, HasCode(wrapped, ErrCodeVersionMismatch))
	assert.False(t, HasCode(wrapped, ErrCodeQueryFailed))

	plain := errors.New("standard error")
	assert.Empty(t, Codes(plain))
	assert.Equal(t, ErrCodeUnknown, GetCode(plain))
	assert.False(t, HasCode(plain, ErrCodeUnknown))
	assert.Empty(t, Codes(nil))
}

func TestCodesStopAtForeignCause(t *testing.T) {
	root := New(ErrCodeQueryFailed, "query failed")
	middle := fmt.Errorf("decode: %w", root)
	err := Wrap(ErrCodeStoreUnavailable, "failed to load", middle)

	// the fmt layer is skipped by errors.As, so the inner code is still found
	assert.Equal(t, []ErrorCode{ErrCodeStoreUnavailable, ErrCodeQueryFailed}, Codes(err))
}

func TestIsAndAs(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeDataNotFound, "data not found", cause)
	assert.True(t, Is(err, cause))

	var coded *Error
	require.True(t, As(fmt.Errorf("outer: %w", err), &coded))
	assert.Equal(t, ErrCodeDataNotFound, coded.Code)
}
