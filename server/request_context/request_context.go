// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package request_context holds the state one preview request accumulates on
its way through the middleware chain.

It sits below both server/middleware and server/routes so that neither has
to import the other.
*/
package request_context

import (
	"context"
	"net/http"

	"golang.org/x/text/language"

	"codeberg.org/mustache-l10n/mustache-l10n/core/idgen"
	"codeberg.org/mustache-l10n/mustache-l10n/core/render"
	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
)

// RequestIDHeader lets a client or proxy pick the request ID.
const RequestIDHeader = "X-Request-Id"

// RequestContext is shared by pointer, so middleware further out sees what
// handlers record.
type RequestContext struct {
	RequestID string

	// RequestError is set by middleware.CatchError and shown on the error page.
	RequestError error

	// StatusCode starts at 200.
	StatusCode int

	// Locale is the language the response is rendered in.
	Locale language.Tag
}

type ctxKey struct{}

// WithRequestContext derives the context of r: the language matched by m,
// the request ID (taken from [RequestIDHeader] when valid) and a fresh
// RequestContext.
func WithRequestContext(ctx context.Context, r *http.Request, m language.Matcher) context.Context {
	id := r.Header.Get(RequestIDHeader)
	if !idgen.Valid(id) {
		id = idgen.Make()
	}

	ctx = render.WithRequestID(i18n.WithRequest(ctx, r, m), id)

	return context.WithValue(ctx, ctxKey{}, &RequestContext{
		RequestID:  id,
		StatusCode: http.StatusOK,
		Locale:     i18n.TagFrom(ctx),
	})
}

// FromContext returns the RequestContext of ctx. Outside the middleware
// chain it returns an empty one, never nil.
func FromContext(ctx context.Context) *RequestContext {
	rc, ok := ctx.Value(ctxKey{}).(*RequestContext)
	if !ok {
		return new(RequestContext)
	}

	return rc
}

// FromRequest is FromContext(r.Context()).
func FromRequest(r *http.Request) *RequestContext {
	return FromContext(r.Context())
}
