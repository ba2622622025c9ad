// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package requestutil_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labramp/backbone/internal/platform/apperr"
	"github.com/labramp/backbone/internal/platform/ctxutil"
	requestutil "github.com/labramp/backbone/internal/platform/request"
)

func TestDecodeJSON(t *testing.T) {
	t.Run("valid_body", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"alpha"}`))

		var payload map[string]string
		require.NoError(t, requestutil.DecodeJSON(request, &payload))
		assert.Equal(t, "alpha", payload["name"])
	})

	t.Run("malformed_body", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

		var payload map[string]string
		err := requestutil.DecodeJSON(request, &payload)

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError)
		assert.Equal(t, http.StatusUnprocessableEntity, appError.HTTPStatus)
	})
}

func TestParam(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/items/{pk}", func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(requestutil.Param(request, "pk")))
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/items/abc-123", nil))

	assert.Equal(t, "abc-123", recorder.Body.String())
}

func TestRequiredUserID(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request = request.WithContext(ctxutil.WithSessionUser(request.Context(), "user-1"))

		userID, err := requestutil.RequiredUserID(request)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("anonymous", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := requestutil.RequiredUserID(request)
		require.Error(t, err)

		var appError *apperr.AppError
		require.True(t, errors.As(err, &appError))
		assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
	})
}
