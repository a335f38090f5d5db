// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package mustache

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Option configures a template before it is parsed.
type Option func(*parser)

// WithContentType sets the content type of the template. The default is [HTML].
func WithContentType(ct ContentType) Option {
	return func(p *parser) {
		p.contentType = ct
	}
}

// Template is a parsed template. It is safe for concurrent use.
type Template struct {
	source      string
	nodes       []node
	contentType ContentType
}

// Parse parses src into a template.
func Parse(src string, options ...Option) (*Template, error) {
	p := &parser{src: src, contentType: HTML}
	for _, opt := range options {
		opt(p)
	}

	nodes, err := p.parse()
	if err != nil {
		return nil, err
	}

	return &Template{source: src, nodes: nodes, contentType: p.contentType}, nil
}

// MustParse is like [Parse] but panics on error.
func MustParse(src string, options ...Option) *Template {
	t, err := Parse(src, options...)
	if err != nil {
		panic(err)
	}

	return t
}

// Source returns the template text t was parsed from.
func (t *Template) Source() string { return t.source }

// ContentType returns the content type of the template output.
func (t *Template) ContentType() ContentType { return t.contentType }

// Render renders t with data values pushed in order onto a new context.
func (t *Template) Render(data ...any) (string, error) {
	r, err := t.RenderContext(NewContext(data...))

	return r.Text, err
}

// RenderContext renders t against ctx.
func (t *Template) RenderContext(ctx *Context) (Rendering, error) {
	var b strings.Builder
	if err := renderNodes(&b, t.nodes, ctx); err != nil {
		return Rendering{}, err
	}

	return Rendering{Text: b.String(), ContentType: t.contentType}, nil
}

// Tags returns every tag of t in document order, nested tags included.
func (t *Template) Tags() []*Tag {
	var out []*Tag

	for _, n := range t.nodes {
		if tn, ok := n.(*tagNode); ok {
			tn.tag.walk(func(tag *Tag) { out = append(out, tag) })
		}
	}

	return out
}

// RootTags returns the tags of t that no section encloses, in document
// order.
func (t *Template) RootTags() []*Tag {
	var out []*Tag

	for _, n := range t.nodes {
		if tn, ok := n.(*tagNode); ok {
			out = append(out, tn.tag)
		}
	}

	return out
}

// Component adapts t to a [templ.Component] rendering it with data.
func (t *Template) Component(data ...any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		out, err := t.Render(data...)
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, out)

		return err
	})
}
