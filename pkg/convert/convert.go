// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses loosely typed query values.

Conversions never fail; malformed input yields the zero value or the given
default. Use [strconv] directly where malformed and zero must be told apart.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts a string to an int, returning def if it is empty or malformed.
func ToIntD(str string, def int) int {
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
		return v
	}
	return def
}

// ToBool parses a filter flag. Besides the [strconv.ParseBool] forms it
// accepts "yes" and "on", which is what an HTML checkbox submits.
func ToBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on":
		return true
	}

	v, _ := strconv.ParseBool(s)
	return v
}
