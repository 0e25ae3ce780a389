// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Field Identifiers

const (
	FieldLogin    = "login"
	FieldPassword = "password"
)

// # Input Limits

const (
	// MaxLoginLength bounds the username or email submitted at sign-in.
	MaxLoginLength = 254

	// MaxPasswordLength bounds the submitted password.
	MaxPasswordLength = 128
)
