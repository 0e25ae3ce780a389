// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upstream is the HTTP boundary to the case-management REST API.

Every call takes a [context.Context]; cancelling it aborts the network request.
When the context carries credentials (see ctxutil.WithCredentials) the bearer
token is attached, and a 401 answer force-logs-out those credentials before the
error is returned.

Envelopes:

  - Success: {"data": ..., "meta": {...}}; bodies without "data" decode as a whole.
  - Failure: {"error"|"message": "...", "code": "...", "details": [...]}
*/
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/taibuivan/courtdesk/internal/platform/apperr"
	"github.com/taibuivan/courtdesk/internal/platform/constants"
	"github.com/taibuivan/courtdesk/internal/platform/ctxutil"
	"github.com/taibuivan/courtdesk/pkg/pagination"
)

// maxResponseSize bounds a buffered upstream body.
const maxResponseSize = 16 << 20

// msgSessionExpired is returned when the server rejects the bearer token.
const msgSessionExpired = "Your session has expired. Please sign in again."

// # Client

// Client calls the case-management API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client with a pooled transport.
//
// Parameters:
//   - baseURL: API root without a trailing slash, e.g. https://cms.example/api
//   - timeout: Upper bound for a whole request, including the body
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: transport, Timeout: timeout},
		logger:     logger,
	}
}

// BaseURL returns the configured API root.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// # Verbs

// Get fetches path and decodes the envelope's data into out.
// The returned meta is nil when the server sent none.
func (client *Client) Get(ctx context.Context, path string, query url.Values, out any) (*pagination.Meta, error) {
	return client.do(ctx, call{method: http.MethodGet, path: path, query: query, out: out})
}

// Post sends body as JSON and decodes the envelope's data into out.
func (client *Client) Post(ctx context.Context, path string, body, out any) error {
	_, err := client.do(ctx, call{method: http.MethodPost, path: path, body: body, out: out})
	return err
}

// Put replaces a resource.
func (client *Client) Put(ctx context.Context, path string, body, out any) error {
	_, err := client.do(ctx, call{method: http.MethodPut, path: path, body: body, out: out})
	return err
}

// Patch partially updates a resource.
func (client *Client) Patch(ctx context.Context, path string, body, out any) error {
	_, err := client.do(ctx, call{method: http.MethodPatch, path: path, body: body, out: out})
	return err
}

// Delete removes a resource.
func (client *Client) Delete(ctx context.Context, path string) error {
	_, err := client.do(ctx, call{method: http.MethodDelete, path: path})
	return err
}

// Ping checks that the API answers at all. Any HTTP response counts as reachable.
func (client *Client) Ping(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodHead, client.baseURL, nil)
	if err != nil {
		return fmt.Errorf("upstream: build ping: %w", err)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("upstream: ping failed: %w", err)
	}
	_ = response.Body.Close()
	return nil
}

// # Transport

// call describes one request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any

	// bearer overrides the context credentials; anonymous drops them.
	bearer    string
	anonymous bool
}

/*
do executes a call and decodes its envelope.

Description: Transport failures become [apperr.Unreachable]. Error statuses
become an [*apperr.AppError] carrying the server's code and message, except
5xx, which is reported as 502 so a failing server never looks like a console bug.
*/
func (client *Client) do(ctx context.Context, c call) (*pagination.Meta, error) {
	logger := ctxutil.GetLogger(ctx)

	// 1. Build
	request, err := client.newRequest(ctx, c)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	credentials := ctxutil.GetCredentials(ctx)
	switch {
	case c.bearer != "":
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+c.bearer)
	case !c.anonymous && credentials != nil:
		if token := credentials.Token(); token != "" {
			request.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
		}
	}

	// 2. Send
	startTime := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		logger.WarnContext(ctx, "upstream_unreachable",
			slog.String("method", c.method),
			slog.String("path", c.path),
			slog.Any("error", err),
		)
		return nil, apperr.Unreachable(err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, apperr.Unreachable(fmt.Errorf("upstream: read body: %w", err))
	}

	logger.DebugContext(ctx, "upstream_call",
		slog.String("method", c.method),
		slog.String("path", c.path),
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)

	// 3. Reject
	if response.StatusCode >= http.StatusBadRequest {
		return nil, client.failure(ctx, c, response.StatusCode, payload, credentials)
	}

	// 4. Decode
	return decodeEnvelope(payload, c.out)
}

func (client *Client) newRequest(ctx context.Context, c call) (*http.Request, error) {
	target := client.baseURL + c.path
	if len(c.query) > 0 {
		target += "?" + c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		encoded, err := json.Marshal(c.body)
		if err != nil {
			return nil, fmt.Errorf("upstream: encode body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, c.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}

	request.Header.Set(constants.HeaderAccept, "application/json")
	if c.body != nil {
		request.Header.Set(constants.HeaderContentType, "application/json")
	}
	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		request.Header.Set(constants.HeaderXRequestID, requestID)
	}

	return request, nil
}

// # Envelopes

type successEnvelope struct {
	Data json.RawMessage  `json:"data"`
	Meta *pagination.Meta `json:"meta"`
}

type errorEnvelope struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details"`
}

func decodeEnvelope(payload []byte, out any) (*pagination.Meta, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}

	var envelope successEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		// Not an object: decode the raw body below.
		envelope = successEnvelope{}
	}

	data := envelope.Data
	if len(data) == 0 {
		data = payload
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, apperr.Unreachable(fmt.Errorf("upstream: decode response: %w", err))
		}
	}

	return envelope.Meta, nil
}

// failure maps an error status onto an [*apperr.AppError].
func (client *Client) failure(ctx context.Context, c call, status int, payload []byte, credentials ctxutil.Credentials) error {
	var envelope errorEnvelope
	_ = json.Unmarshal(payload, &envelope)

	message := envelope.Error
	if message == "" {
		message = envelope.Message
	}

	// A rejected bearer ends the session wherever the call came from.
	if status == http.StatusUnauthorized && !c.anonymous && c.bearer == "" && credentials != nil {
		if err := credentials.ForceLogout(ctx, "upstream returned 401"); err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "forced_logout_failed", slog.Any("error", err))
		}
		expired := apperr.Unauthorized(msgSessionExpired)
		expired.Cause = apperr.FromStatus(status, envelope.Code, message)
		return expired
	}

	if status >= http.StatusInternalServerError {
		failed := apperr.FromStatus(http.StatusBadGateway, "UPSTREAM_ERROR", "The case-management server failed to process the request")
		failed.Cause = fmt.Errorf("upstream %s %s: %d %s", c.method, c.path, status, message)
		return failed
	}

	appError := apperr.FromStatus(status, envelope.Code, message)
	appError.Details = envelope.Details
	return appError
}
