// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package mustache

// Observer is notified around the evaluation of every tag rendered in a
// context that carries it. See [Context.Extend].
//
// When several observers are in scope, the most recently pushed one is
// called first.
type Observer interface {
	// WillRender is called with the evaluated value of tag before it is
	// rendered. The returned value is rendered instead.
	WillRender(tag *Tag, value any) any

	// DidRender is called after tag has been rendered with the final text
	// it produced, escaping included.
	DidRender(tag *Tag, value any, rendered string)
}

// SectionRenderer is a value that renders the sections it is bound to.
//
// RenderSection is handed the section tag and the current context; it
// typically calls tag.Render with that context, or an extension of it.
type SectionRenderer interface {
	RenderSection(tag *Tag, ctx *Context) (Rendering, error)
}

// RenderingFilter is a filter that transforms the rendering of its argument.
type RenderingFilter interface {
	FilterRendering(r Rendering) (Rendering, error)
}

// FilterFunc is a filter over raw values.
type FilterFunc func(value any) (any, error)
