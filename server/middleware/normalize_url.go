// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
)

// localePrefixPaths defines paths for which we handle a "/<locale>/" prefix.
var localePrefixPaths = []string{
	"render/",
}

// NormalizeURL is a middleware that handles URL normalization by:
// 1. Moving a locale prefix such as /fr/ into the lang query parameter.
// 2. Removing trailing slashes from URLs (except root).
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if locale, rest, ok := localePrefix(r); ok {
		moveLocalePrefix(w, r, locale, rest)

		return
	}

	if hasTrailingSlash(r) {
		removeTrailingSlash(w, r)

		return
	}

	next.ServeHTTP(w, r)
}

// hasTrailingSlash checks if a request path has a trailing slash (except root).
func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

// removeTrailingSlash removes trailing slash and redirects.
func removeTrailingSlash(w http.ResponseWriter, r *http.Request) {
	target := *r.URL

	if len(target.Path) > 1 {
		target.Path = strings.TrimSuffix(target.Path, "/")
	}

	http.Redirect(w, r, target.String(), http.StatusPermanentRedirect)
}

// localePrefix reports whether the request path starts with a locale
// followed by one of localePrefixPaths, and returns both parts.
func localePrefix(r *http.Request) (locale, rest string, ok bool) {
	path := strings.TrimPrefix(r.URL.Path, "/")

	locale, rest, found := strings.Cut(path, "/")
	if !found || locale == "" {
		return "", "", false
	}

	if _, err := language.Parse(locale); err != nil {
		return "", "", false
	}

	for _, validPath := range localePrefixPaths {
		if strings.HasPrefix(rest+"/", validPath) {
			return locale, "/" + rest, true
		}
	}

	return "", "", false
}

// moveLocalePrefix redirects to rest with the locale as the lang query
// parameter, which takes precedence over cookies and headers.
func moveLocalePrefix(w http.ResponseWriter, r *http.Request, locale, rest string) {
	target := *r.URL
	target.Path = rest

	query := target.Query()
	query.Set(i18n.LangParam, locale)
	target.RawQuery = query.Encode()

	http.Redirect(w, r, target.String(), http.StatusMovedPermanently)
}
