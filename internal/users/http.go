// Copyright (c) 2026 Labramp. All rights reserved.
// Author: platform@labramp.dev

package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labramp/backbone/internal/platform/apperr"
	"github.com/labramp/backbone/internal/platform/constants"
	"github.com/labramp/backbone/internal/platform/middleware"
	requestutil "github.com/labramp/backbone/internal/platform/request"
	"github.com/labramp/backbone/internal/platform/respond"
	"github.com/labramp/backbone/internal/sessions"
)

// Handler implements the authentication entry points.
//
// # Scope
//
// Login, logout, and the current-account lookup live here. Account CRUD rides
// the generic resource machinery mounted by the server.
type Handler struct {
	users    *Service
	sessions *sessions.Service
}

// NewHandler constructs a [Handler] with its service dependencies.
func NewHandler(users *Service, sessionService *sessions.Service) *Handler {
	return &Handler{users: users, sessions: sessionService}
}

// Routes returns a [chi.Router] with the authentication endpoints.
//
// # Endpoints
//   - POST /login  : Verifies credentials and returns an opaque session token.
//   - POST /logout : Revokes the presented session token.
//   - GET  /user   : Returns the account bound to the session token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.With(middleware.RequireAuth).Get("/user", handler.currentUser)

	return router
}

// loginRequest is the JSON payload expected by the login endpoint.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /login.
//
// On success the response carries the opaque session token the client must
// replay in the X-Session-Token header. Every credential failure is the same
// 401 SECURITY envelope regardless of its cause.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := handler.users.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.sessions.Create(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldToken: session.Token})
}

// logout handles POST /logout. Revocation is idempotent; a missing or unknown
// token still yields a successful logout.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	token := request.Header.Get(constants.HeaderSessionToken)

	if err := handler.sessions.Revoke(request.Context(), token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{constants.FieldStatus: "logged out"})
}

// currentUser handles GET /user. The route sits behind RequireAuth, so the
// context carries a validated user ID; the account may still have been
// deleted after the session was issued.
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.users.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if user == nil {
		respond.Error(writer, request, apperr.Unauthorized("Invalid or expired session token"))
		return
	}

	respond.OK(writer, user)
}
