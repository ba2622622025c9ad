// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labramp/backbone/internal/platform/ctxutil"
)

// # Request Auditing

// maxCapturedBody caps how much of a request or response body is retained for
// the audit record. Bigger bodies are truncated, never buffered in full.
const maxCapturedBody = 64 * 1024

// auditSkipPaths are endpoints whose traffic never reaches the audit log:
// documentation/introspection surfaces and the health/status probes.
var auditSkipPaths = []string{
	"/docs",
	"/redoc",
	"/openapi.json",
	"/status",
	"/health",
	"/ready",
}

// auditSkipContentTypes mark streaming/binary-like responses that bypass body
// capture entirely.
var auditSkipContentTypes = []string{
	"text/csv",
	"text/xml",
	"image",
}

// auditRecorder captures status, headers, and a bounded copy of the response
// body while passing everything through to the real writer.
type auditRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (recorder *auditRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *auditRecorder) Write(chunk []byte) (int, error) {
	if recorder.body.Len() < maxCapturedBody {
		remaining := maxCapturedBody - recorder.body.Len()
		if remaining > len(chunk) {
			remaining = len(chunk)
		}
		recorder.body.Write(chunk[:remaining])
	}
	return recorder.ResponseWriter.Write(chunk)
}

/*
Audit is the lifecycle post-hook: it emits exactly one structured log record
per completed request, containing the route, method, correlation ID, caller
address, both header sets, both bodies (best-effort decoded as JSON), the
response status, and the elapsed milliseconds.

Skip rules:
  - Excluded paths (docs, introspection, health/status) bypass capture and
    logging entirely; they still receive the [RequestID] pre-hook.
  - Responses with streaming/binary-like content types (CSV, XML, images)
    are not logged.
  - Redirect responses pass through untouched.
*/
func Audit(logger *slog.Logger, serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// Excluded paths skip capture entirely, no body buffering cost.
			if auditPathSkipped(request.URL.Path) {
				next.ServeHTTP(writer, request)
				return
			}

			// 1. Inject the per-request sub-logger for downstream use.
			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			)
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)

			// 2. Retain a bounded copy of the request body and restore the stream.
			var requestBody []byte
			if request.Body != nil {
				requestBody, _ = io.ReadAll(io.LimitReader(request.Body, maxCapturedBody))
				request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(requestBody), request.Body))
			}

			// 3. Run the handler against the recording writer.
			recorder := &auditRecorder{ResponseWriter: writer, status: http.StatusOK}
			next.ServeHTTP(recorder, request.WithContext(ctx))

			// 4. Redirects pass through untouched.
			if recorder.status >= 300 && recorder.status < 400 {
				return
			}

			// 5. Streaming/binary-like responses are not logged.
			if auditContentTypeSkipped(recorder.Header().Get("Content-Type")) {
				return
			}

			// 6. One structured completion record.
			elapsed := time.Since(ctxutil.GetStartTime(request.Context())).Milliseconds()

			level := slog.LevelInfo
			if recorder.status >= 500 {
				level = slog.LevelError
			} else if recorder.status >= 400 {
				level = slog.LevelWarn
			}

			requestLogger.Log(ctx, level, "http_request_completed",
				slog.String("route", request.URL.Path),
				slog.String("method", request.Method),
				slog.String("service", serviceName),
				slog.Time("timestamp", time.Now()),
				slog.String("from", RealIP(request)),
				slog.Any("request_headers", headerMap(request.Header)),
				slog.Any("request_body", bestEffortJSON(requestBody)),
				slog.Any("response_headers", headerMap(recorder.Header())),
				slog.Int("response_status", recorder.status),
				slog.Int64("response_total_ms", elapsed),
				slog.Any("response_body", bestEffortJSON(recorder.body.Bytes())),
			)
		})
	}
}

func auditPathSkipped(path string) bool {
	for _, skip := range auditSkipPaths {
		if strings.Contains(path, skip) {
			return true
		}
	}
	return false
}

func auditContentTypeSkipped(contentType string) bool {
	for _, skip := range auditSkipContentTypes {
		if strings.Contains(contentType, skip) {
			return true
		}
	}
	return false
}
