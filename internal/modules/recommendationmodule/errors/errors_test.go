package errors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToAppError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{NoAnswers("recommend"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{Invalid("recommend", "maxAge %d", -1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{Store("record_quiz", "u1", errors.New("locked")), http.StatusInternalServerError, "UPSTREAM_FAILURE"},
		{Store("record_quiz", "u1", context.DeadlineExceeded), http.StatusInternalServerError, "UPSTREAM_FAILURE"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		appErr := ToAppError(tc.err)
		assert.Equal(t, tc.status, appErr.HTTPStatus, tc.err.Error())
		assert.Equal(t, tc.code, string(appErr.Code), tc.err.Error())
	}
}

func TestStoreErrorMentionsUser(t *testing.T) {
	err := Store("history", "u7", errors.New("locked"))
	assert.Contains(t, err.Error(), "[user=u7]")
	assert.ErrorIs(t, err, ErrStore)
}
