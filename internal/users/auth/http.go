// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/courtdesk/internal/platform/apperr"
	"github.com/taibuivan/courtdesk/internal/platform/middleware"
	requestutil "github.com/taibuivan/courtdesk/internal/platform/request"
	"github.com/taibuivan/courtdesk/internal/platform/respond"
	"github.com/taibuivan/courtdesk/internal/session"
)

// # Definitions & Constructors

// Handler implements the console's sign-in endpoints.
type Handler struct {
	authService *Service
	browsers    *session.BrowserSessions
	loginPath   string
}

// NewHandler constructs a [Handler]. loginPath is where unauthenticated page
// loads are redirected.
func NewHandler(service *Service, browsers *session.BrowserSessions, loginPath string) *Handler {
	return &Handler{
		authService: service,
		browsers:    browsers,
		loginPath:   loginPath,
	}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login  : Signs in and sets the session cookie.
//   - POST /logout : Signs out and expires the cookie (idempotent).
//   - GET  /me     : Returns the signed-in profile.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	router.With(middleware.RequireSession(handler.browsers, handler.loginPath)).Get("/me", handler.me)

	return router
}

// # Request Payloads

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

/*
Login authenticates against the case-management API and binds the session to
a fresh cookie.

POST /api/v1/auth/login

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: Profile: The signed-in user, role and permissions
  - 400: VALIDATION_ERROR: Missing fields
  - 401: UNAUTHORIZED: Rejected credentials or an unusable token
  - 502: UPSTREAM_UNREACHABLE: The API could not be reached
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// 1. Issue a new session id; the old cookie stays until this succeeds
	manager, sessionID, err := handler.browsers.Issue()
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}
	defer manager.Close()

	previous, _ := handler.browsers.Open(request)

	// 2. Authenticate
	current, err := handler.authService.Login(request.Context(), manager, previous, input.Login, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// 3. Bind
	handler.browsers.Bind(writer, sessionID)
	respond.OK(writer, ProfileOf(current))
}

/*
Logout signs the browser out.

POST /api/v1/auth/logout

Response:
  - 204: No Content: Signed out, or there was nothing to sign out
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	manager, _ := handler.browsers.Open(request)
	if manager != nil {
		defer manager.Close()
	}

	if err := handler.authService.Logout(request.Context(), manager); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.browsers.End(writer)
	respond.NoContent(writer)
}

/*
Me returns the signed-in profile.

GET /api/v1/auth/me
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	current, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ProfileOf(current))
}
