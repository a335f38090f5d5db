// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package mustache

import "strings"

// TagKind distinguishes variable tags from section tags.
type TagKind int

const (
	// VariableTag is {{name}}, {{{name}}} or {{&name}}.
	VariableTag TagKind = iota
	// SectionTag is {{#name}}…{{/name}} or {{^name}}…{{/name}}.
	SectionTag
)

func (k TagKind) String() string {
	if k == SectionTag {
		return "section"
	}

	return "variable"
}

// Tag is a parsed template tag.
//
// Tags are immutable once parsed and may be rendered concurrently.
type Tag struct {
	kind        TagKind
	source      string
	expr        expression
	line        int
	escaped     bool
	inverted    bool
	inner       string
	children    []node
	contentType ContentType
}

// Kind returns whether t is a variable or a section.
func (t *Tag) Kind() TagKind { return t.kind }

// Name returns the expression written in the tag, e.g. "user.name" or "localize".
func (t *Tag) Name() string { return t.source }

// Line returns the 1-based line of the opening tag.
func (t *Tag) Line() int { return t.line }

// Inverted reports whether t is an inverted section.
func (t *Tag) Inverted() bool { return t.inverted }

// Escaped reports whether a variable tag HTML-escapes its value.
func (t *Tag) Escaped() bool { return t.escaped }

// InnerTemplateString returns the raw, unrendered source between the
// opening and closing tags of a section. It is empty for variables.
func (t *Tag) InnerTemplateString() string { return t.inner }

// Render renders the inner content of a section against ctx.
//
// Render does not evaluate the section's own expression: it is what a
// [SectionRenderer] calls to render the content it was handed. For a
// variable tag it returns an empty rendering.
func (t *Tag) Render(ctx *Context) (Rendering, error) {
	var b strings.Builder
	if err := renderNodes(&b, t.children, ctx); err != nil {
		return Rendering{}, err
	}

	return Rendering{Text: b.String(), ContentType: t.contentType}, nil
}

// walk calls fn for t and every tag nested in it, depth first.
func (t *Tag) walk(fn func(*Tag)) {
	fn(t)

	for _, n := range t.children {
		if tn, ok := n.(*tagNode); ok {
			tn.tag.walk(fn)
		}
	}
}
