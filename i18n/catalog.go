// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// Catalog is a [Store] backed by GNU gettext .po catalogues.
type Catalog struct {
	// localesByTag maps canonical BCP 47 tags, for example
	// "en", "ja", "pt-BR", to their loaded gotext.Locale.
	localesByTag map[string]*gotext.Locale

	// tables lists the gettext domains that were loaded.
	tables []string

	// supportedTags holds the tags for which a locale was loaded, base first.
	supportedTags []language.Tag

	base    language.Tag
	matcher language.Matcher
	opts    storeOptions
}

var _ Localized = (*Catalog)(nil)

// LoadCatalog loads gettext catalogues from fsys.
//
// The expected layout is one directory per table, holding one file per locale:
//
//	<table>/<locale>.po
//
// The <locale> filename part may use hyphens or underscores, for example "pt-BR.po"
// or "pt_BR.po", and is normalised to a canonical BCP 47 language tag. Template
// files (.pot) are ignored. base is always included and acts as the default fallback.
func LoadCatalog(fsys fs.FS, base language.Tag, options ...StoreOption) (*Catalog, error) {
	c := &Catalog{
		localesByTag: make(map[string]*gotext.Locale),
		base:         base,
		opts:         newStoreOptions(options),
	}

	dirs, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog directory: %w", err)
	}

	var tagsList []language.Tag

	for _, dir := range dirs {
		if !dir.IsDir() {
			continue
		}

		table := dir.Name()

		entries, err := fs.ReadDir(fsys, table)
		if err != nil {
			return nil, fmt.Errorf("failed to read table %s: %w", table, err)
		}

		loaded := false

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".po") {
				continue
			}

			fileName := entry.Name()
			localeName := strings.TrimSuffix(fileName, ".po")

			// Accept both underscore and hyphen.
			t, err := language.Parse(strings.ReplaceAll(localeName, "_", "-"))
			if err != nil {
				Logger.Warn().Err(err).Str("file", path.Join(table, fileName)).Msg("Skipping invalid locale file")
				continue
			}

			canonical := t.String()

			po := gotext.NewPoFS(fsys)
			po.ParseFile(path.Join(table, fileName))

			loc, ok := c.localesByTag[canonical]
			if !ok {
				loc = gotext.NewLocale("", canonical) // Base path is unused when manually adding translators.
				c.localesByTag[canonical] = loc

				tagsList = append(tagsList, t)
			}

			loc.AddTranslator(table, po)

			loaded = true

			Logger.Info().
				Str("locale", canonical).
				Str("table", table).
				Msg("Loaded locale")
		}

		if loaded {
			c.tables = append(c.tables, table)
		}
	}

	c.supportedTags = sortedTags(base, tagsList)
	c.matcher = language.NewMatcher(c.supportedTags)

	return c, nil
}

// Languages returns the supported language tags, base first and the rest
// sorted by tag string. The returned slice is a copy.
func (c *Catalog) Languages() []language.Tag {
	out := make([]language.Tag, len(c.supportedTags))
	copy(out, c.supportedTags)

	return out
}

// Tables returns the names of the loaded tables.
func (c *Catalog) Tables() []string {
	return append([]string(nil), c.tables...)
}

// Matcher returns the matcher built from the loaded locales.
func (c *Catalog) Matcher() language.Matcher { return c.matcher }

// Lookup translates key in the base locale.
func (c *Catalog) Lookup(key, table string) string {
	return c.Locale(c.base).Lookup(key, table)
}

// Locale returns a store bound to the loaded locale that best matches tag.
func (c *Catalog) Locale(tag language.Tag) Store {
	_, index, _ := c.matcher.Match(tag)
	matched := c.supportedTags[index]

	return &catalogLocale{
		catalog: c,
		locale:  c.localesByTag[matched.String()],
		tag:     matched,
	}
}

// FromContext returns the store for the language tag carried by ctx.
func (c *Catalog) FromContext(ctx context.Context) Store {
	return c.Locale(TagFrom(ctx))
}

// catalogLocale is a Catalog bound to one locale.
type catalogLocale struct {
	catalog *Catalog
	locale  *gotext.Locale
	tag     language.Tag
}

func (l *catalogLocale) Lookup(key, table string) string {
	domain := tableName(table)

	if l.locale != nil && singularTranslated(l.locale, domain, key) {
		return l.locale.GetD(domain, key)
	}

	return l.catalog.opts.missing(localeKey(l.tag), table, key)
}

// singularTranslated reports whether key has a msgstr in domain. gotext
// checks the plural form that n selects, and form 0 (the singular msgstr)
// is chosen by n=1 under most Plural-Forms rules but by n=0 under some,
// such as Arabic's.
func singularTranslated(l *gotext.Locale, domain, key string) bool {
	return l.IsTranslatedND(domain, key, 1) || l.IsTranslatedND(domain, key, 0)
}
