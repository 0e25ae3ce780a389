// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query reads multi-valued filters from a URL query.
package query

import (
	"net/url"
	"strings"
)

// StringSlice splits one comma-separated value into trimmed, non-empty parts.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}

	var res []string
	for _, v := range strings.Split(val, ",") {
		if clean := strings.TrimSpace(v); clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Strings collects every value of key, accepting both repeated keys
// (?status=A&status=B) and comma lists (?status=A,B). Duplicates are dropped
// and first-seen order is kept.
func Strings(values url.Values, key string) []string {
	seen := make(map[string]bool)

	var res []string
	for _, raw := range values[key] {
		for _, v := range StringSlice(raw) {
			if !seen[v] {
				seen[v] = true
				res = append(res, v)
			}
		}
	}
	return res
}
