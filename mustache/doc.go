// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package mustache implements a small logic-less template engine in the
Mustache family, with the extension points needed by package localizer.

# Syntax

	{{name}}             escaped variable
	{{{name}}} {{&name}} raw variable
	{{#name}}…{{/name}}  section
	{{^name}}…{{/name}}  inverted section
	{{! comment }}       comment
	{{a.b.c}} {{.}}      dotted names and the implicit iterator
	{{f(name)}}          filter call, nestable as in {{f(g(name))}}

Partials and delimiter changes are not supported.

# Extension points

A value implementing [SectionRenderer] takes over the rendering of any
section it is bound to. A value implementing [RenderingFilter], or a
[FilterFunc], can be called as a filter.

An [Observer] pushed with [Context.Extend] is notified around the
evaluation of every tag rendered within that context:

	ctx = ctx.Extend(observer)
	r, err := tag.Render(ctx)

# Escaping

Templates default to [HTML] content. Escaped tags HTML-escape any [Text]
value they render; [HTML] renderings are written as they are.
*/
package mustache
