// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses. Payloads
// are serialized directly (a record, or an array of records); every failure,
// classified or not, is translated into the uniform envelope
//
//	{"errors": {"<CATEGORY>": "<message>"}}
//
// so that clients can always parse error responses the same way. The Error
// function is the single translation boundary: it never re-raises, and it
// always produces a response.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/labramp/backbone/internal/platform/apperr"
	"github.com/labramp/backbone/internal/platform/ctxutil"
)

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with the payload serialized directly.
func OK(writer http.ResponseWriter, payload interface{}) {
	JSON(writer, http.StatusOK, payload)
}

// Created writes a 201 Created response with the payload serialized directly.
func Created(writer http.ResponseWriter, payload interface{}) {
	JSON(writer, http.StatusCreated, payload)
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any Go error into the standardized JSON error envelope.
//
// Classified failures ([*apperr.AppError]) keep their own status and category.
// Anything else is logged with full detail server-side and surfaced to the
// caller only as a generic 500 GENERAL message; internal detail never leaks
// into the response body.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	appError := apperr.As(err)
	if appError == nil {
		logger.ErrorContext(request.Context(), "unclassified_error",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Domain failures are always logged before translation; 5xx escalate.
	level := slog.LevelWarn
	if appError.HTTPStatus >= 500 {
		level = slog.LevelError
	}
	logger.Log(request.Context(), level, "request_failed",
		slog.String("category", string(appError.Category)),
		slog.Int("status", appError.HTTPStatus),
		slog.String("detail", appError.Detail()),
		slog.Any("cause", appError.Cause),
	)

	JSON(writer, appError.HTTPStatus, appError.Envelope())
}
