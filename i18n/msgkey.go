// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"html"
	"io"
)

// Translatable is a value that can translate itself for the language in ctx.
type Translatable interface {
	Tr(ctx context.Context) string
}

// MsgKey is a source string looked up in [DefaultTable].
//
// MsgKey implements templ.Component, so page chrome around rendered
// templates can embed it directly.
type MsgKey string

// Tr is equivalent to calling [Tr] with s.
func (s MsgKey) Tr(ctx context.Context) string {
	return Tr(ctx, string(s))
}

// Render writes the HTML-escaped translation of s to w.
func (s MsgKey) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, html.EscapeString(s.Tr(ctx)))

	return err
}
