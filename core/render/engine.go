// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package render loads Mustache templates from a directory and renders them
// with a localizer bound in their context.
package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"codeberg.org/mustache-l10n/mustache-l10n/core/audit"
	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
	"codeberg.org/mustache-l10n/mustache-l10n/localizer"
	"codeberg.org/mustache-l10n/mustache-l10n/mustache"
)

// Extension is the file extension of templates.
const Extension = ".mustache"

var (
	// ErrTemplateNotFound is returned for names with no template file.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidName is returned for names that are not valid template paths.
	ErrInvalidName = errors.New("invalid template name")
)

// Engine renders the templates of one directory. Parsed templates are
// cached; an Engine is safe for concurrent use.
type Engine struct {
	fsys        fs.FS
	contentType mustache.ContentType
	binding     string
	table       string
	store       i18n.Store

	cache sync.Map // name → *mustache.Template
}

// Option configures an [Engine].
type Option func(*Engine)

// WithContentType sets the content type templates are parsed with.
func WithContentType(ct mustache.ContentType) Option {
	return func(e *Engine) { e.contentType = ct }
}

// WithBinding sets the name the localizer is bound to in templates.
func WithBinding(name string) Option {
	return func(e *Engine) { e.binding = name }
}

// WithTable sets the translation table used by the localizer.
func WithTable(table string) Option {
	return func(e *Engine) { e.table = table }
}

// WithStore sets the translation store. The default is [i18n.Default] at
// render time.
func WithStore(s i18n.Store) Option {
	return func(e *Engine) { e.store = s }
}

// NewEngine returns an engine for the templates in fsys.
func NewEngine(fsys fs.FS, options ...Option) *Engine {
	e := &Engine{
		fsys:        fsys,
		contentType: mustache.HTML,
		binding:     localizer.Name,
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

// Names returns the names of the templates in the engine's directory,
// sorted.
func (e *Engine) Names() ([]string, error) {
	var names []string

	err := fs.WalkDir(e.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(p, Extension) {
			names = append(names, strings.TrimSuffix(p, Extension))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	sort.Strings(names)

	return names, nil
}

// Template returns the parsed template called name. A name without an
// extension refers to the file name+".mustache".
func (e *Engine) Template(name string) (*mustache.Template, error) {
	if cached, ok := e.cache.Load(name); ok {
		return cached.(*mustache.Template), nil
	}

	file := name
	if path.Ext(name) == "" {
		file += Extension
	}

	if !fs.ValidPath(file) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	src, err := fs.ReadFile(e.fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}

	tmpl, err := mustache.Parse(string(src), mustache.WithContentType(e.contentType))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	actual, _ := e.cache.LoadOrStore(name, tmpl)

	return actual.(*mustache.Template), nil
}

// Reset drops every cached template.
func (e *Engine) Reset() {
	e.cache.Clear()
}

// Localizer returns the localizer used for renders in ctx, bound to the
// language [i18n.TagFrom] reports for ctx.
func (e *Engine) Localizer(ctx context.Context) *localizer.Localizer {
	store := e.store
	if store == nil {
		store = i18n.Default()
	}

	return localizer.New(
		localizer.WithStore(i18n.ForContext(ctx, store)),
		localizer.WithTable(e.table),
	)
}

// Render renders the template called name with data, localized for the
// language carried by ctx.
func (e *Engine) Render(ctx context.Context, name string, data any) (mustache.Rendering, error) {
	tmpl, err := e.Template(name)
	if err != nil {
		return mustache.Rendering{}, err
	}

	return e.RenderTemplate(ctx, name, tmpl, data)
}

// RenderTemplate is like Render for an already parsed template. name is
// only used for logging and timing.
func (e *Engine) RenderTemplate(ctx context.Context, name string, tmpl *mustache.Template, data any) (mustache.Rendering, error) {
	span := audit.Span{
		Kind:      audit.KindRender,
		RequestID: requestIDFrom(ctx),
		Target:    name,
		Locale:    i18n.TagFrom(ctx).String(),
	}

	span.Begin(ctx)

	l := e.Localizer(ctx)
	r, err := tmpl.RenderContext(l.Register(mustache.NewContext(data), e.binding))

	span.End()

	span.Error = err
	span.Output = []byte(r.Text)
	span.Log()

	if err != nil {
		return mustache.Rendering{}, fmt.Errorf("failed to render %s: %w", name, err)
	}

	return r, nil
}
