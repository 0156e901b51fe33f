package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeToHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusBadRequest, New(CodeInvalidParam, "x").HTTPStatus)
	require.Equal(t, http.StatusInternalServerError, New(CodeDatabaseError, "x").HTTPStatus)
	require.Equal(t, http.StatusInternalServerError, New(CodeLLMCallFailed, "x").HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeDatabaseError, "failed to create usage record")

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "connection refused")
	require.Contains(t, err.Error(), string(CodeDatabaseError))
}

func TestAsAppError(t *testing.T) {
	appErr := New(CodeLLMCallFailed, "call failed")
	require.Same(t, appErr, AsAppError(appErr))

	plain := errors.New("boom")
	wrapped := AsAppError(plain)
	require.Equal(t, CodeUnknown, wrapped.Code)
	require.ErrorIs(t, wrapped, plain)
}
