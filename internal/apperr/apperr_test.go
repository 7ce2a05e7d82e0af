package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"activity_hub/internal/apperr"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not_found", apperr.NotFound("event %d not found", 7), http.StatusNotFound},
		{"conflict", apperr.Conflict("email already in use"), http.StatusConflict},
		{"already_registered", apperr.New(apperr.ErrAlreadyRegistered, "dup"), http.StatusBadRequest},
		{"capacity", apperr.New(apperr.ErrCapacityExceeded, "full"), http.StatusBadRequest},
		{"validation", apperr.Validation("phone is required"), http.StatusBadRequest},
		{"unauthorized", apperr.Unauthorized("bad token"), http.StatusUnauthorized},
		{"forbidden", apperr.New(apperr.ErrForbidden, "staff only"), http.StatusForbidden},
		{"storage", apperr.Storage(errors.New("connection reset"), "could not save"), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.HTTPStatus(tt.err))
		})
	}
}

func TestStorage_KeepsKnownKinds(t *testing.T) {
	nf := apperr.NotFound("participant 3 not found")

	err := apperr.Storage(nf, "lookup failed")

	assert.Same(t, nf, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NotErrorIs(t, err, apperr.ErrStorage)
}

func TestStorage_WrapsCause(t *testing.T) {
	cause := errors.New("driver: bad connection")

	err := apperr.Storage(cause, "could not count registrations")

	assert.ErrorIs(t, err, apperr.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "could not count registrations: driver: bad connection", err.Error())
	assert.Nil(t, apperr.Storage(nil, "unused"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, apperr.IsNotFound(apperr.NotFound("event not found")))
	assert.True(t, apperr.IsNotFound(fmt.Errorf("lookup: %w", apperr.NotFound("user 9"))))
	assert.False(t, apperr.IsNotFound(apperr.Conflict("email already in use")))
	assert.False(t, apperr.IsNotFound(nil))
}
