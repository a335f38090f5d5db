// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package mustache

import (
	"fmt"
	"strings"
)

// expression is the parsed content of a tag.
type expression interface {
	eval(ctx *Context) (any, error)
}

// identExpr is a dotted name, "." or a scoped ".name".
type identExpr struct {
	name string
}

func (e identExpr) eval(ctx *Context) (any, error) {
	v, _ := ctx.Lookup(e.name)

	return v, nil
}

// callExpr is a filter call such as f(x).
type callExpr struct {
	fn  expression
	arg expression
	src string
}

func (e callExpr) eval(ctx *Context) (any, error) {
	fn, err := e.fn.eval(ctx)
	if err != nil {
		return nil, err
	}

	arg, err := e.arg.eval(ctx)
	if err != nil {
		return nil, err
	}

	switch f := fn.(type) {
	case RenderingFilter:
		r, ok := arg.(Rendering)
		if !ok {
			r = Rendering{Text: stringify(arg), ContentType: Text}
		}

		return f.FilterRendering(r)
	case FilterFunc:
		return f(arg)
	case func(any) (any, error):
		return f(arg)
	case func(any) any:
		return f(arg), nil
	case func(string) string:
		return f(stringify(arg)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotAFilter, e.src)
	}
}

// parseExpression parses the content of a tag:
//
//	expr  := name ( "(" expr ")" )*
//	name  := "." | "."? ident ( "." ident )*
func parseExpression(src string) (expression, error) {
	p := exprParser{src: src}

	e, err := p.parse()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if p.pos != len(p.src) {
		return nil, fmt.Errorf("unexpected %q in expression %q", p.src[p.pos:], src)
	}

	return e, nil
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) parse() (expression, error) {
	p.skipSpace()

	start := p.pos
	for p.pos < len(p.src) && !isExprDelim(p.src[p.pos]) {
		p.pos++
	}

	name := p.src[start:p.pos]
	if name == "" {
		return nil, fmt.Errorf("missing identifier in expression %q", p.src)
	}

	if name != "." {
		for _, part := range strings.Split(strings.TrimPrefix(name, "."), ".") {
			if part == "" {
				return nil, fmt.Errorf("invalid identifier %q", name)
			}
		}
	}

	var e expression = identExpr{name: name}

	for {
		p.skipSpace()

		if p.pos >= len(p.src) || p.src[p.pos] != '(' {
			return e, nil
		}

		p.pos++

		arg, err := p.parse()
		if err != nil {
			return nil, err
		}

		p.skipSpace()

		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return nil, fmt.Errorf("missing ')' in expression %q", p.src)
		}

		p.pos++

		e = callExpr{fn: e, arg: arg, src: p.src[start:p.pos]}
	}
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func isExprDelim(c byte) bool {
	return c == '(' || c == ')' || isSpace(c)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
