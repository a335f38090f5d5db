// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"
	"sync/atomic"

	"codeberg.org/mustache-l10n/mustache-l10n/config"
)

// contentSecurityPolicy lets rendered previews style themselves inline but
// never run scripts or be framed.
var contentSecurityPolicy = strings.Join([]string{
	"base-uri 'self'",
	"default-src 'self'",
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' data:",
	"script-src 'none'",
	"form-action 'self'",
	"frame-ancestors 'none'",
}, "; ") + ";"

var staticHeaders = [...][2]string{
	{"Content-Security-Policy", contentSecurityPolicy},
	{"Referrer-Policy", "no-referrer"},
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Cache-Control", "private, no-cache"},
}

// clearedSiteData is set once the first development response asked the
// browser to drop its cache.
var clearedSiteData atomic.Bool

// SetResponseHeaders sets the security and caching headers of every
// preview response, and the build that produced it.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	h := w.Header()

	for _, kv := range staticHeaders {
		h.Set(kv[0], kv[1])
	}

	// Compression adds its own entry.
	h.Add("Vary", "Accept-Language, Cookie")

	h.Set("L10n-Version", config.BuildVersion)
	h.Set("L10n-Revision", config.Global.Build.Revision())

	if config.Global.Development.InDevelopment {
		clearSiteDataOnce(h)
	}

	next.ServeHTTP(w, r)
}

func clearSiteDataOnce(h http.Header) {
	if clearedSiteData.CompareAndSwap(false, true) {
		h.Set("Clear-Site-Data", `"cache"`)
	}
}
