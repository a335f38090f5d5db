// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"fmt"

	"codeberg.org/mustache-l10n/mustache-l10n/mustache"
)

type passState int

const (
	stateIdle passState = iota
	stateSkeleton
	stateArguments
)

// capture observes the variables of one localized section render.
// It lives for a single RenderSection call.
type capture struct {
	state passState
	args  []string
}

var _ mustache.Observer = (*capture)(nil)

func (c *capture) WillRender(tag *mustache.Tag, value any) any {
	if c.state == stateSkeleton && tag.Kind() == mustache.VariableTag {
		return Placeholder
	}

	return value
}

func (c *capture) DidRender(tag *mustache.Tag, _ any, rendered string) {
	if c.state == stateArguments && tag.Kind() == mustache.VariableTag {
		c.args = append(c.args, rendered)
	}
}

func (c *capture) reset() {
	c.state = stateIdle
	c.args = nil
}

// RenderSection renders a {{#localize}} section. See the package
// documentation for the algorithm.
//
// Render failures of the section content are returned unchanged. A
// translation that needs more arguments than the section has yields an
// [*ArityError].
func (l *Localizer) RenderSection(tag *mustache.Tag, ctx *mustache.Context) (mustache.Rendering, error) {
	for _, o := range ctx.Observers() {
		if _, ok := o.(*capture); ok {
			return mustache.Rendering{}, fmt.Errorf("%w: %s at line %d", ErrNestedLocalization, tag.Name(), tag.Line())
		}
	}

	c := &capture{}
	defer c.reset()

	ctx = ctx.Extend(c)

	c.state = stateSkeleton

	skeleton, err := tag.Render(ctx)
	if err != nil {
		return mustache.Rendering{}, err
	}

	c.state = stateArguments
	c.args = []string{}

	if _, err := tag.Render(ctx); err != nil {
		return mustache.Rendering{}, fmt.Errorf("%w: %w", ErrArgumentPass, err)
	}

	text, err := l.localize(skeleton.Text, c.args)
	if err != nil {
		return mustache.Rendering{}, err
	}

	return mustache.Rendering{Text: text, ContentType: skeleton.ContentType}, nil
}

// localize looks up the key derived from skeleton and applies args to the
// translation.
func (l *Localizer) localize(skeleton string, args []string) (string, error) {
	if len(args) == 0 {
		return l.lookup(skeleton), nil
	}

	key := EscapeAndMark(skeleton, Placeholder)
	format := l.lookup(key)

	Logger.Trace().
		Str("key", key).
		Int("args", len(args)).
		Msg("Localizing section")

	text, err := ApplyArguments(format, args)
	if err != nil {
		return "", fmt.Errorf("localizing %q: %w", key, err)
	}

	return text, nil
}
