// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labramp/backbone/internal/platform/apperr"
	"github.com/labramp/backbone/internal/platform/constants"
	"github.com/labramp/backbone/internal/platform/ctxutil"
	"github.com/labramp/backbone/internal/platform/respond"
)

// SessionValidator defines the interface needed to resolve session tokens.
//
// # Why an interface?
//
// Defining SessionValidator here decouples the middleware from the sessions
// service implementation, allowing us to easily inject fakes during unit testing.
type SessionValidator interface {
	// ValidateAndExtend resolves a token to its owning user ID, sliding the
	// expiry window forward when the remaining time is below extendBy.
	// An empty user ID means the token is unknown or expired.
	ValidateAndExtend(ctx context.Context, token string, extendBy time.Duration) (string, error)
}

// Authenticate resolves the session token from the X-Session-Token header.
//
// # Flow
//  1. Check for the 'X-Session-Token' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, validate via [SessionValidator]; each authenticated request
//     slides the session expiry forward (bounded by the hard ceiling).
//  4. Inject the user ID into the request context for downstream use.
func Authenticate(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token := request.Header.Get(constants.HeaderSessionToken)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Resolution ───────────────────────────────────────────
			userID, err := validator.ValidateAndExtend(request.Context(), token, constants.SessionExtendBy)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			if userID == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired session token"))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithSessionUser(request.Context(), userID)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetSessionUser(request.Context()) == "" {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
