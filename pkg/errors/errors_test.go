package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	cloned := Clone(ErrMessageExpired, "message is 6 minutes old")
	assert.True(t, stdErrors.Is(cloned, ErrMessageExpired))
	assert.False(t, stdErrors.Is(cloned, ErrInvalidSignature))
	assert.Equal(t, http.StatusForbidden, cloned.Status)
	assert.Equal(t, "message is 6 minutes old", cloned.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	raw := fmt.Errorf("dial tcp: refused")
	appErr := FromError(raw)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, raw)
	assert.Contains(t, appErr.Error(), "refused")
}

func TestInternalSanitizesMessage(t *testing.T) {
	appErr := Internal(fmt.Errorf("pq: relation missing"), "failed to load archive")
	assert.Equal(t, "failed to load archive", appErr.Message)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestCatalogStatuses(t *testing.T) {
	cases := map[*Error]int{
		ErrAdminNotConfigured:   http.StatusInternalServerError,
		ErrMessageFormat:        http.StatusForbidden,
		ErrMessageExpired:       http.StatusForbidden,
		ErrInvalidSignature:     http.StatusForbidden,
		ErrValidation:           http.StatusBadRequest,
		ErrArchiveNameTaken:     http.StatusBadRequest,
		ErrConfirmationRequired: http.StatusBadRequest,
		ErrNotFound:             http.StatusNotFound,
		ErrInternal:             http.StatusInternalServerError,
	}
	for sentinel, status := range cases {
		assert.Equal(t, status, sentinel.Status, sentinel.Code)
	}
}
