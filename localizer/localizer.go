// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
	"codeberg.org/mustache-l10n/mustache-l10n/mustache"
)

// Name is the conventional binding name of a Localizer in templates.
const Name = "localize"

// Placeholder stands in for nested variables while the lookup key of a
// section is rendered. It must not occur in template output.
const Placeholder = "GRPLACEHOLDER"

// Logger is the logger used by package localizer.
var Logger = log.With().Str("sys", "localizer").Logger()

// SetLogger replaces [Logger], tagging l with the package's sys field.
func SetLogger(l zerolog.Logger) {
	Logger = l.With().Str("sys", "localizer").Logger()
}

// Localizer translates sections and values against a translation table.
//
// A Localizer is immutable and holds no render state, so one value may be
// shared by any number of concurrent renders.
type Localizer struct {
	store i18n.Store
	table string
}

var (
	_ mustache.SectionRenderer = (*Localizer)(nil)
	_ mustache.RenderingFilter = (*Localizer)(nil)
)

// Option configures a [Localizer].
type Option func(*Localizer)

// WithStore sets the translation store. Without it, lookups go to
// [i18n.Default] as it is at lookup time.
func WithStore(s i18n.Store) Option {
	return func(l *Localizer) {
		l.store = s
	}
}

// WithTable sets the table looked up. The empty string selects the store's
// default table.
func WithTable(table string) Option {
	return func(l *Localizer) {
		l.table = table
	}
}

// New returns a Localizer configured by options.
func New(options ...Option) *Localizer {
	l := &Localizer{}
	for _, opt := range options {
		opt(l)
	}

	return l
}

// Store returns the store lookups go to.
func (l *Localizer) Store() i18n.Store {
	if l.store == nil {
		return i18n.Default()
	}

	return l.store
}

// Table returns the table lookups go to.
func (l *Localizer) Table() string { return l.table }

// ForLocale returns a Localizer bound to the best match for tag when the
// store holds several locales, and l itself otherwise.
func (l *Localizer) ForLocale(tag language.Tag) *Localizer {
	s, ok := l.Store().(i18n.Localized)
	if !ok {
		return l
	}

	return &Localizer{store: s.Locale(tag), table: l.table}
}

// Bindings returns a value to push on a rendering context so templates can
// reach l as name.
func (l *Localizer) Bindings(name string) map[string]any {
	return map[string]any{name: l}
}

// Register returns ctx with l bound as name.
func (l *Localizer) Register(ctx *mustache.Context, name string) *mustache.Context {
	return ctx.Push(l.Bindings(name))
}

func (l *Localizer) lookup(key string) string {
	return l.Store().Lookup(key, l.table)
}
