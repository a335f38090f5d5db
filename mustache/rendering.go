// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package mustache

import "html"

// ContentType tells whether a [Rendering] holds plain text or HTML.
type ContentType int

const (
	// Text is plain text. It gets escaped when written into HTML.
	Text ContentType = iota
	// HTML is markup that is written as is.
	HTML
)

func (c ContentType) String() string {
	switch c {
	case Text:
		return "text"
	case HTML:
		return "html"
	default:
		return "unknown"
	}
}

// ParseContentType maps "text" and "html" to their ContentType.
func ParseContentType(s string) (ContentType, bool) {
	switch s {
	case "text":
		return Text, true
	case "html":
		return HTML, true
	default:
		return Text, false
	}
}

// Rendering is the output of a template, a tag or a filter.
type Rendering struct {
	Text        string
	ContentType ContentType
}

// HTMLString returns the rendering as HTML, escaping it if it is text.
func (r Rendering) HTMLString() string {
	if r.ContentType == HTML {
		return r.Text
	}

	return html.EscapeString(r.Text)
}
