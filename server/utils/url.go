// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"net/http"
	"strings"
)

// GetQueryParam returns the query value name of r, or the first fallback
// when that value is empty.
func GetQueryParam(r *http.Request, name string, fallback ...string) string {
	return firstNonEmpty(r.URL.Query().Get(name), fallback...)
}

// GetPathVar returns the wildcard name matched by the route of r, or the
// first fallback when it is empty.
func GetPathVar(r *http.Request, name string, fallback ...string) string {
	return firstNonEmpty(r.PathValue(name), fallback...)
}

func firstNonEmpty(v string, fallback ...string) string {
	if v != "" || len(fallback) == 0 {
		return v
	}

	return fallback[0]
}

// SanitizeReturnPath keeps s only when it points back into the preview
// server: a rooted path with no scheme or authority. Anything else yields "".
func SanitizeReturnPath(s string) string {
	path := strings.TrimSpace(s)

	switch {
	case !strings.HasPrefix(path, "/"),
		strings.HasPrefix(path, "//"),
		strings.HasPrefix(path, `/\`),
		strings.Contains(path, "://"):
		return ""
	}

	return path
}
