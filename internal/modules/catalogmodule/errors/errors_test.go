package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/cineclass/cineclass/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestToAppError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   types.ErrorCode
		status int
	}{
		{"not found", NotFound("get_title", "tmdb_1"), types.ErrorCodeNotFound, http.StatusNotFound},
		{"invalid", Invalid("filter", "limit %d out of range", 500), types.ErrorCodeValidation, http.StatusBadRequest},
		{"no keywords", fmt.Errorf("match: %w", ErrNoKeywords), types.ErrorCodeValidation, http.StatusBadRequest},
		{"store", Store("find", errors.New("connection refused")), types.ErrorCodeUpstreamFailure, http.StatusInternalServerError},
		{"timeout", Store("find", context.DeadlineExceeded), types.ErrorCodeUpstreamFailure, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), types.ErrorCodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := ToAppError(tc.err)
			assert.Equal(t, tc.code, appErr.Code)
			assert.Equal(t, tc.status, appErr.HTTPStatus)
		})
	}
}

func TestNotFoundCarriesID(t *testing.T) {
	err := NotFound("get_title", "tmdb_7")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "tmdb_7", ToAppError(err).Context["id"])
	assert.Equal(t, "not_found error in get_title [title=tmdb_7]: title not found", err.Error())
}

func TestStoreErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Store("upsert", cause)
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, ToAppError(err), cause)
}
