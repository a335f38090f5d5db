// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package mustache

import (
	"fmt"
	"html"
	"reflect"
	"strings"
)

type node interface {
	render(b *strings.Builder, ctx *Context) error
}

type textNode string

func (n textNode) render(b *strings.Builder, _ *Context) error {
	b.WriteString(string(n))

	return nil
}

type tagNode struct {
	tag *Tag
}

func (n *tagNode) render(b *strings.Builder, ctx *Context) error {
	value, err := n.tag.expr.eval(ctx)
	if err != nil {
		return err
	}

	observers := ctx.Observers()
	for _, o := range observers {
		value = o.WillRender(n.tag, value)
	}

	var rendered string

	if n.tag.kind == VariableTag {
		rendered = n.tag.writeValue(value, n.tag.escaped)
	} else {
		rendered, err = n.renderSection(ctx, value)
		if err != nil {
			return err
		}
	}

	for _, o := range observers {
		o.DidRender(n.tag, value, rendered)
	}

	b.WriteString(rendered)

	return nil
}

func (n *tagNode) renderSection(ctx *Context, value any) (string, error) {
	tag := n.tag

	if tag.inverted {
		if truthy(value) {
			return "", nil
		}

		r, err := tag.Render(ctx)

		return r.Text, err
	}

	if sr, ok := value.(SectionRenderer); ok {
		r, err := sr.RenderSection(tag, ctx)
		if err != nil {
			return "", err
		}

		return tag.writeValue(r, true), nil
	}

	if !truthy(value) {
		return "", nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		var b strings.Builder

		for i := range rv.Len() {
			if err := renderNodes(&b, tag.children, ctx.Push(rv.Index(i).Interface())); err != nil {
				return "", err
			}
		}

		return b.String(), nil
	}

	if _, ok := value.(bool); ok {
		r, err := tag.Render(ctx)

		return r.Text, err
	}

	r, err := tag.Render(ctx.Push(value))

	return r.Text, err
}

// writeValue converts a value to the text written in place of a tag.
func (t *Tag) writeValue(value any, escape bool) string {
	if r, ok := value.(Rendering); ok {
		if escape && t.contentType == HTML {
			return r.HTMLString()
		}

		return r.Text
	}

	s := stringify(value)
	if escape && t.contentType == HTML {
		return html.EscapeString(s)
	}

	return s
}

func renderNodes(b *strings.Builder, nodes []node, ctx *Context) error {
	for _, n := range nodes {
		if err := n.render(b, ctx); err != nil {
			return err
		}
	}

	return nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case Rendering:
		return v.Text
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// truthy follows the usual Mustache rules: nil, false, zero numbers,
// empty strings and empty collections are false.
func truthy(value any) bool {
	if value == nil {
		return false
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}
