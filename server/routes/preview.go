// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"io"
	"net/http"

	"codeberg.org/mustache-l10n/mustache-l10n/core/render"
	"codeberg.org/mustache-l10n/mustache-l10n/mustache"
	"codeberg.org/mustache-l10n/mustache-l10n/server/request_context"
)

// Preview serves the templates of an engine, rendered with fixed data.
type Preview struct {
	Engine *render.Engine
	Data   map[string]any

	// Reload drops cached templates before every render so that edits show
	// up without a restart.
	Reload bool
}

var indexTemplate = mustache.MustParse(`<!DOCTYPE html>
<html lang="{{locale}}">
<head>
<meta charset="utf-8">
<title>{{#localize}}Templates{{/localize}}</title>
</head>
<body>
<h1>{{#localize}}Templates{{/localize}}</h1>
{{#templates}}
<ul>
{{#names}}<li><a href="/render/{{.}}">{{.}}</a></li>
{{/names}}
</ul>
{{/templates}}
{{^templates}}<p>{{#localize}}No templates found.{{/localize}}</p>{{/templates}}
</body>
</html>
`)

// IndexPage lists the templates that can be previewed.
func (p *Preview) IndexPage(w http.ResponseWriter, r *http.Request) error {
	names, err := p.Engine.Names()
	if err != nil {
		return err
	}

	data := map[string]any{
		"locale":    request_context.FromRequest(r).Locale.String(),
		"templates": len(names) > 0,
		"names":     names,
	}

	page, err := builtin.RenderTemplate(r.Context(), "index", indexTemplate, data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	_, err = io.WriteString(w, page.Text)

	return err
}

// RenderPage renders the template named by the path, localized for the
// language of the request.
func (p *Preview) RenderPage(w http.ResponseWriter, r *http.Request) error {
	if p.Reload {
		p.Engine.Reset()
	}

	page, err := p.Engine.Render(r.Context(), r.PathValue("name"), p.Data)
	if err != nil {
		return err
	}

	contentType := "text/plain; charset=utf-8"
	if page.ContentType == mustache.HTML {
		contentType = "text/html; charset=utf-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Language", request_context.FromRequest(r).Locale.String())

	_, err = io.WriteString(w, page.Text)

	return err
}
