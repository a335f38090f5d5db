// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"

	"golang.org/x/text/language"

	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
	"codeberg.org/mustache-l10n/mustache-l10n/server/request_context"
)

// WithRequestContext is a middleware that attaches a RequestContext to each HTTP request.
//
// The locale is matched against the languages of the default translation store.
func WithRequestContext(w http.ResponseWriter, r *http.Request, next http.Handler) {
	next.ServeHTTP(w, r.WithContext(request_context.WithRequestContext(r.Context(), r, defaultMatcher())))
}

// defaultMatcher returns nil when the default store has no languages,
// which leaves every request on the base locale.
func defaultMatcher() language.Matcher {
	if l, ok := i18n.Default().(i18n.Localized); ok {
		return l.Matcher()
	}

	return nil
}
