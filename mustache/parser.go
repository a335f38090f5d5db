// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package mustache

import (
	"fmt"
	"strings"
)

const (
	openDelim     = "{{"
	closeDelim    = "}}"
	rawCloseDelim = "}}}"
)

// openSection tracks a section whose closing tag has not been seen yet.
type openSection struct {
	tag        *Tag
	innerStart int
	parent     *[]node
}

type parser struct {
	src         string
	contentType ContentType
}

func (p *parser) errorf(offset int, format string, args ...any) error {
	return &ParseError{
		Line: 1 + strings.Count(p.src[:offset], "\n"),
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (p *parser) parse() ([]node, error) {
	var (
		root  []node
		stack []openSection
	)

	current := &root
	pos := 0

	for {
		i := strings.Index(p.src[pos:], openDelim)
		if i < 0 {
			break
		}

		start := pos + i
		if start > pos {
			*current = append(*current, textNode(p.src[pos:start]))
		}

		var (
			content string
			end     int
			raw     bool
		)

		if strings.HasPrefix(p.src[start:], "{{{") {
			j := strings.Index(p.src[start+3:], rawCloseDelim)
			if j < 0 {
				return nil, p.errorf(start, "unclosed tag")
			}

			content = p.src[start+3 : start+3+j]
			end = start + 3 + j + len(rawCloseDelim)
			raw = true
		} else {
			j := strings.Index(p.src[start+2:], closeDelim)
			if j < 0 {
				return nil, p.errorf(start, "unclosed tag")
			}

			content = p.src[start+2 : start+2+j]
			end = start + 2 + j + len(closeDelim)
		}

		content = strings.TrimSpace(content)
		if content == "" {
			return nil, p.errorf(start, "empty tag")
		}

		sigil := content[0]
		if raw {
			sigil = '{'
		}

		switch sigil {
		case '!':
			// comment
		case '>', '=':
			return nil, p.errorf(start, "unsupported tag %q", content)
		case '/':
			name := strings.TrimSpace(content[1:])
			if len(stack) == 0 {
				return nil, p.errorf(start, "unexpected closing tag %q", name)
			}

			top := stack[len(stack)-1]
			if top.tag.source != name {
				return nil, p.errorf(start, "closing tag %q does not match %q", name, top.tag.source)
			}

			top.tag.inner = p.src[top.innerStart:start]
			stack = stack[:len(stack)-1]
			current = top.parent
		case '#', '^':
			tag, err := p.newTag(start, SectionTag, strings.TrimSpace(content[1:]))
			if err != nil {
				return nil, err
			}

			tag.inverted = sigil == '^'

			*current = append(*current, &tagNode{tag: tag})
			stack = append(stack, openSection{tag: tag, innerStart: end, parent: current})
			current = &tag.children
		default:
			name := content

			escaped := true

			switch sigil {
			case '{':
				escaped = false
			case '&':
				name = strings.TrimSpace(content[1:])
				escaped = false
			}

			tag, err := p.newTag(start, VariableTag, name)
			if err != nil {
				return nil, err
			}

			tag.escaped = escaped

			*current = append(*current, &tagNode{tag: tag})
		}

		pos = end
	}

	if pos < len(p.src) {
		*current = append(*current, textNode(p.src[pos:]))
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]

		return nil, &ParseError{Line: top.tag.line, Msg: fmt.Sprintf("unclosed section %q", top.tag.source)}
	}

	return root, nil
}

func (p *parser) newTag(offset int, kind TagKind, source string) (*Tag, error) {
	expr, err := parseExpression(source)
	if err != nil {
		return nil, p.errorf(offset, "%v", err)
	}

	return &Tag{
		kind:        kind,
		source:      source,
		expr:        expr,
		line:        1 + strings.Count(p.src[:offset], "\n"),
		contentType: p.contentType,
	}, nil
}
