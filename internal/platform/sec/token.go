// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec holds the client-side security primitives of the console:
// bearer-token decoding, the role/permission table and token hashing.
//
// # Trust Model
//
// Tokens are issued and signed by the case-management API. This package only
// reads the payload segment (role, expiry, identity claims) to drive UI gating;
// signatures are verified server-side on every request.
//
// # Failure Policy
//
// Nothing in this package returns an error for a bad token. Malformed input
// decodes to "no payload", which every caller treats as unauthenticated.
package sec

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenSegments is the structural shape of a bearer token: header.payload.signature.
const tokenSegments = 3

// Payload is the decoded claim set of a bearer token's middle segment.
//
// It only lives for the duration of a decode; callers derive what they need
// (role, expiry, identity) and drop it.
type Payload = jwt.MapClaims

// segmentParser restores stripped base64 padding before decoding.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// # Decoding

// DecodePayload extracts the claim set from a bearer token without verifying it.
//
// # Returns
//   - (payload, true) when the token has exactly three segments and the middle
//     one is base64url-encoded JSON object.
//   - (nil, false) for anything else. It never panics.
func DecodePayload(token string) (Payload, bool) {
	segments := strings.Split(token, ".")
	if len(segments) != tokenSegments {
		return nil, false
	}

	raw, err := segmentParser.DecodeSegment(segments[1])
	if err != nil {
		return nil, false
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
		return nil, false
	}

	return payload, true
}

// # Expiry

// ExpiresAt returns the token's `exp` claim.
// The boolean is false when the claim is absent or not numeric.
func ExpiresAt(payload Payload) (time.Time, bool) {
	if payload == nil {
		return time.Time{}, false
	}

	expiry, err := payload.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}

	return expiry.Time, true
}

// IsPayloadExpired reports whether a decoded payload is past its expiry.
//
// A payload without a usable `exp` claim is treated as expired. The comparison
// is made in whole seconds: a token expiring in the current second is still valid.
func IsPayloadExpired(payload Payload, now time.Time) bool {
	expiry, ok := ExpiresAt(payload)
	if !ok {
		return true
	}
	return expiry.Unix() < now.Unix()
}

// IsTokenExpired decodes token and reports whether it is expired.
// Undecodable tokens are expired.
func IsTokenExpired(token string, now time.Time) bool {
	payload, ok := DecodePayload(token)
	if !ok {
		return true
	}
	return IsPayloadExpired(payload, now)
}

// # Identity Claims

// Identity is the user-facing subset of a token payload.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

// IdentityFromPayload reads identity claims, tolerating the claim spellings
// the case-management API has used over time.
func IdentityFromPayload(payload Payload) Identity {
	return Identity{
		UserID:   firstString(payload, "uid", "userId", "sub"),
		Username: firstString(payload, "username", "unm", "preferred_username", "sub"),
		Email:    firstString(payload, "email"),
	}
}

// firstString returns the first non-empty string claim among keys.
func firstString(payload Payload, keys ...string) string {
	for _, key := range keys {
		if value, ok := payload[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
