// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"codeberg.org/mustache-l10n/mustache-l10n/core/render"
	"codeberg.org/mustache-l10n/mustache-l10n/mustache"
	"codeberg.org/mustache-l10n/mustache-l10n/server/request_context"
)

var errorTemplate = mustache.MustParse(`<!DOCTYPE html>
<html lang="{{locale}}">
<head>
<meta charset="utf-8">
<title>{{#localize}}Error {{status}}{{/localize}}</title>
</head>
<body>
<h1>{{#localize}}Error {{status}}{{/localize}}</h1>
<p>{{localize(statusText)}}</p>
{{#detail}}<pre>{{detail}}</pre>{{/detail}}
<p><a href="/">{{#localize}}Back to the template list{{/localize}}</a></p>
</body>
</html>
`)

// builtin renders the pages of the server itself; they never read from disk.
var builtin = render.NewEngine(nil)

// ErrorPage writes the error page for the status code of the request
// context, including the status line.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	ctx := request_context.FromRequest(r)

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	data := map[string]any{
		"locale":     ctx.Locale.String(),
		"status":     strconv.Itoa(ctx.StatusCode),
		"statusText": http.StatusText(ctx.StatusCode),
	}
	if ctx.RequestError != nil {
		data["detail"] = ctx.RequestError.Error()
	}

	page, err := builtin.RenderTemplate(r.Context(), "error", errorTemplate, data)
	if err != nil {
		log.Err(err).Msg("Failed to render the error page")

		page.Text = http.StatusText(ctx.StatusCode)
	}

	w.WriteHeader(ctx.StatusCode)
	_, _ = io.WriteString(w, page.Text)
}
