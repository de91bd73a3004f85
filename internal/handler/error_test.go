package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", usecase.NewNotFound("cart"), http.StatusNotFound},
		{"invalid state", usecase.NewInvalidState("empty cart"), http.StatusConflict},
		{"validation", usecase.NewValidation("invalid page"), http.StatusBadRequest},
		{"unauthorized", usecase.NewUnauthorized(), http.StatusUnauthorized},
		{"forbidden", usecase.NewForbidden("admin only"), http.StatusForbidden},
		{"internal", usecase.NewInternal("db error"), http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := writeError(c, tc.err)
			assert.NoError(t, err)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
