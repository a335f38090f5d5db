// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/mustache-l10n/mustache-l10n/config"
	"codeberg.org/mustache-l10n/mustache-l10n/core/audit"
	"codeberg.org/mustache-l10n/mustache-l10n/core/render"
	"codeberg.org/mustache-l10n/mustache-l10n/server/request_context"
	"codeberg.org/mustache-l10n/mustache-l10n/server/routes"
)

// CatchError adapts a handler that returns an error into an http.HandlerFunc.
//
// The handler writes into a buffer. The buffer is sent as is unless the
// request failed, in which case the client gets the localized error page
// instead:
//   - a missing or invalid template name is a 404;
//   - a 404 written by the handler stays a 404;
//   - an error returned without an error status is a 500.
//
// An error returned alongside a 4xx or 5xx status is assumed to be handled
// and the buffer is sent. Every request is logged as an audit span.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := request_context.FromRequest(r)

		span := audit.Span{
			Kind:      audit.KindRequest,
			RequestID: rc.RequestID,
			Method:    r.Method,
			Target:    r.URL.String(),
			Locale:    rc.Locale.String(),
		}
		span.Begin(r.Context())
		defer span.End()

		buf := httptest.NewRecorder()
		rc.RequestError = handler(buf, r)

		if status, failed := failureStatus(rc.RequestError, buf.Code); failed {
			rc.StatusCode = status
			routes.ErrorPage(w, r)
		} else {
			rc.StatusCode = buf.Code
			flush(w, buf)
		}

		span.End()
		span.StatusCode = rc.StatusCode
		span.Error = rc.RequestError

		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}

// failureStatus reports whether a handler that returned err after writing
// code should get the error page, and with which status.
func failureStatus(err error, code int) (int, bool) {
	switch {
	case errors.Is(err, render.ErrTemplateNotFound),
		errors.Is(err, render.ErrInvalidName),
		code == http.StatusNotFound:
		return http.StatusNotFound, true
	case err != nil && code < http.StatusBadRequest:
		return http.StatusInternalServerError, true
	}

	return code, false
}

func flush(w http.ResponseWriter, buf *httptest.ResponseRecorder) {
	maps.Copy(w.Header(), buf.Header())
	w.WriteHeader(buf.Code)

	if _, err := buf.Body.WriteTo(w); err != nil {
		log.Err(err).Msg("Failed to write response body")
	}
}
