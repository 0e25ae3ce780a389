// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upstream

import (
	"context"
	"net/http"

	"github.com/taibuivan/courtdesk/internal/platform/apperr"
	"github.com/taibuivan/courtdesk/internal/session"
)

// Authentication endpoints of the case-management API.
const (
	pathLogin  = "/auth/login"
	pathLogout = "/auth/logout"
)

// AuthClient implements [session.Authenticator] against the case-management API.
type AuthClient struct {
	client *Client
}

var _ session.Authenticator = (*AuthClient)(nil)

// NewAuthClient wraps client.
func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse accepts both token field spellings seen on the API.
type loginResponse struct {
	Token       string       `json:"token"`
	AccessToken string       `json:"accessToken"`
	User        session.User `json:"user"`
}

/*
Authenticate exchanges credentials for a bearer token.

Description: The call is anonymous: a 401 here means bad credentials and must
not log anybody out.

Returns:
  - *session.LoginResponse: Token and identity
  - error: 4xx *apperr.AppError for rejected credentials, apperr.Unreachable otherwise
*/
func (auth *AuthClient) Authenticate(ctx context.Context, identifier, secret string) (*session.LoginResponse, error) {
	var response loginResponse
	_, err := auth.client.do(ctx, call{
		method:    http.MethodPost,
		path:      pathLogin,
		body:      loginRequest{Username: identifier, Password: secret},
		out:       &response,
		anonymous: true,
	})
	if err != nil {
		return nil, err
	}

	token := response.Token
	if token == "" {
		token = response.AccessToken
	}
	if token == "" {
		return nil, apperr.Unauthorized("The server returned an invalid session token")
	}

	return &session.LoginResponse{Token: token, User: response.User}, nil
}

// Invalidate revokes token on the server.
func (auth *AuthClient) Invalidate(ctx context.Context, token string) error {
	_, err := auth.client.do(ctx, call{
		method: http.MethodPost,
		path:   pathLogout,
		bearer: token,
	})
	return err
}
