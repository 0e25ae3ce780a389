// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/courtdesk/internal/platform/constants"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
)

// CookieOptions shapes the browser session cookie.
type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// StorageFactory returns the storage scoped to one browser session id.
type StorageFactory func(sessionID string) Storage

// BrowserSessions binds one [Manager] to each browser through a random,
// HttpOnly session cookie. The manager's state lives in the storage returned
// by the factory for that cookie value.
type BrowserSessions struct {
	authenticator Authenticator
	storage       StorageFactory
	logger        *slog.Logger
	cookie        CookieOptions
}

// NewBrowserSessions wires the cookie binding.
func NewBrowserSessions(authenticator Authenticator, storage StorageFactory, logger *slog.Logger, cookie CookieOptions) *BrowserSessions {
	return &BrowserSessions{
		authenticator: authenticator,
		storage:       storage,
		logger:        logger,
		cookie:        cookie,
	}
}

// Open returns the manager bound to the request's cookie.
// The second result is false when the browser carries no session cookie.
func (browsers *BrowserSessions) Open(request *http.Request) (*Manager, bool) {
	cookie, err := request.Cookie(browsers.cookie.Name)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return browsers.manager(cookie.Value), true
}

// Issue creates a manager bound to a fresh session id. The browser sees
// nothing until [BrowserSessions.Bind]; a new id per login prevents fixation.
func (browsers *BrowserSessions) Issue() (*Manager, string, error) {
	sessionID, err := sec.GenerateSecureToken(constants.SessionIDLength)
	if err != nil {
		return nil, "", fmt.Errorf("session: issue id: %w", err)
	}
	return browsers.manager(sessionID), sessionID, nil
}

// Bind sets the session cookie for sessionID.
func (browsers *BrowserSessions) Bind(writer http.ResponseWriter, sessionID string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     browsers.cookie.Name,
		Value:    sessionID,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(browsers.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   browsers.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// End expires the session cookie in the browser.
func (browsers *BrowserSessions) End(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     browsers.cookie.Name,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   browsers.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (browsers *BrowserSessions) manager(sessionID string) *Manager {
	return NewManager(browsers.authenticator, browsers.storage(sessionID), browsers.logger)
}
