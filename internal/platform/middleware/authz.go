// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/courtdesk/internal/platform/apperr"
	"github.com/taibuivan/courtdesk/internal/platform/constants"
	"github.com/taibuivan/courtdesk/internal/platform/ctxutil"
	"github.com/taibuivan/courtdesk/internal/platform/respond"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/internal/session"
)

// RequireSession gates a route on the browser's persisted session.
//
// # Flow
//  1. Bind a [session.Manager] to the request's session cookie.
//  2. Resolve a [session.Guard]; nothing renders while it is loading.
//  3. Authenticated: inject the session, the manager (as outbound credentials)
//     and a user-scoped logger into the context. If the handler answers 401
//     after the session ended (the server rejected the token), the cookie is
//     expired on that same response.
//  4. Unauthenticated: expire the cookie, then redirect browser navigations to
//     loginPath (303) or answer API calls with 401.
func RequireSession(browsers *session.BrowserSessions, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			logger := ctxutil.GetLogger(ctx)

			// 1. Bind
			manager, found := browsers.Open(request)
			if !found {
				deny(writer, request, loginPath)
				return
			}

			// 2. Resolve
			guard := session.NewGuard(manager)
			switch guard.Resolve(ctx) {
			case session.GuardAuthenticated:
				current := guard.Session()

				// 3. Inject
				scoped := logger.With(slog.String("user_id", current.UserID))
				ctx = ctxutil.WithLogger(ctx, scoped)
				ctx = ctxutil.WithSession(ctx, current)
				ctx = ctxutil.WithCredentials(ctx, manager)

				next.ServeHTTP(&endingWriter{ResponseWriter: writer, browsers: browsers, manager: manager}, request.WithContext(ctx))

			case session.GuardUnauthenticated:
				if err := guard.Err(); err != nil {
					logger.WarnContext(ctx, "session_rehydrate_failed", slog.Any("error", err))
				}

				// 4. Deny
				browsers.End(writer)
				deny(writer, request, loginPath)

			default:
				// The client went away before storage answered.
				respond.Error(writer, request, apperr.ServiceUnavailable("Session is still loading"))
			}
		})
	}
}

// endingWriter expires the session cookie when a 401 goes out for a session
// that ended during the request.
type endingWriter struct {
	http.ResponseWriter
	browsers    *session.BrowserSessions
	manager     *session.Manager
	wroteHeader bool
}

func (writer *endingWriter) WriteHeader(status int) {
	if !writer.wroteHeader {
		writer.wroteHeader = true
		if status == http.StatusUnauthorized && writer.manager.Current() == nil {
			writer.browsers.End(writer.ResponseWriter)
		}
	}
	writer.ResponseWriter.WriteHeader(status)
}

func (writer *endingWriter) Write(body []byte) (int, error) {
	if !writer.wroteHeader {
		writer.WriteHeader(http.StatusOK)
	}
	return writer.ResponseWriter.Write(body)
}

// Unwrap exposes the underlying writer to [http.ResponseController].
func (writer *endingWriter) Unwrap() http.ResponseWriter {
	return writer.ResponseWriter
}

// RequirePermission blocks requests whose session lacks p.
//
// # Usage
//
// Must be mounted AFTER [RequireSession].
func RequirePermission(p sec.Permission) func(http.Handler) http.Handler {
	return RequireAnyPermission(p)
}

// RequireAnyPermission blocks requests whose session grants none of ps.
func RequireAnyPermission(ps ...sec.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			current := ctxutil.GetSession(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if current == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !current.Permissions.HasAny(ps...) {
				ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "permission_denied",
					slog.String("role", string(current.Role)),
					slog.Any("required", ps),
				)
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// deny answers an unauthenticated request.
func deny(writer http.ResponseWriter, request *http.Request, loginPath string) {
	if wantsHTML(request) {
		respond.RedirectToLogin(writer, request, loginPath)
		return
	}
	respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
}

// wantsHTML reports whether the request is a browser page navigation.
func wantsHTML(request *http.Request) bool {
	return request.Method == http.MethodGet &&
		strings.Contains(request.Header.Get(constants.HeaderAccept), "text/html")
}
