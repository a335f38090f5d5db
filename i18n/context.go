// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter naming a preferred BCP 47 tag.
	// The value "auto" defers to Accept-Language alone.
	LangParam = "lang"

	// LangCookie remembers a language chosen on an earlier request.
	LangCookie = "Lang"
)

type tagCtxKey struct{}

// WithTag returns a copy of ctx rendering in t. The zero tag resets ctx to
// [BaseLocale].
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagCtxKey{}, t)
}

// TagFrom returns the tag installed by [WithTag], or the tag of [BaseLocale].
func TagFrom(ctx context.Context) language.Tag {
	if ctx == nil {
		return baseTag
	}

	t, _ := ctx.Value(tagCtxKey{}).(language.Tag)
	if t == (language.Tag{}) {
		return baseTag
	}

	return t
}

// FromRequest matches the preferences of r against m. The query parameter
// wins over the cookie, which wins over Accept-Language.
func FromRequest(r *http.Request, m language.Matcher) language.Tag {
	if r == nil || m == nil {
		return baseTag
	}

	tag, _ := language.MatchStrings(m, preferences(r)...)

	return tag
}

func preferences(r *http.Request) []string {
	var prefs []string

	switch q := r.URL.Query().Get(LangParam); {
	case strings.EqualFold(q, "auto"):
	case q != "":
		prefs = append(prefs, q)

		fallthrough
	default:
		if c, err := r.Cookie(LangCookie); err == nil && c.Value != "" {
			prefs = append(prefs, c.Value)
		}
	}

	if accept := r.Header.Get("Accept-Language"); accept != "" {
		prefs = append(prefs, accept)
	}

	return prefs
}

// WithRequest is WithTag with the tag chosen by [FromRequest].
func WithRequest(ctx context.Context, r *http.Request, m language.Matcher) context.Context {
	return WithTag(ctx, FromRequest(r, m))
}

// ForContext narrows s to the language of ctx when s holds several locales.
func ForContext(ctx context.Context, s Store) Store {
	l, ok := s.(Localized)
	if !ok {
		return s
	}

	return l.Locale(TagFrom(ctx))
}
