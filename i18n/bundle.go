// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"

	"github.com/goccy/go-yaml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// Bundle is a [Store] backed by go-i18n message files.
//
// Message files are named <anything>.<locale>.toml or .yaml, for example
// "active.fr.toml". Tables other than [DefaultTable] are nested TOML tables
// or YAML maps, addressed as "<table>.<key>".
type Bundle struct {
	bundle *goi18n.Bundle
	base   language.Tag
	opts   storeOptions
}

var _ Localized = (*Bundle)(nil)

// NewBundle returns an empty bundle whose default language is base.
func NewBundle(base language.Tag, options ...StoreOption) *Bundle {
	bundle := goi18n.NewBundle(base)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", func(data []byte, v any) error {
		return yaml.Unmarshal(data, v)
	})

	return &Bundle{
		bundle: bundle,
		base:   base,
		opts:   newStoreOptions(options),
	}
}

// LoadFS loads the named message files from fsys.
func (b *Bundle) LoadFS(fsys fs.FS, names ...string) error {
	for _, name := range names {
		mf, err := b.bundle.LoadMessageFileFS(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to load message file %s: %w", name, err)
		}

		Logger.Info().
			Str("file", name).
			Str("locale", mf.Tag.String()).
			Int("count", len(mf.Messages)).
			Msg("Loaded message file")
	}

	return nil
}

// AddMessages adds translations of keys in table for tag.
func (b *Bundle) AddMessages(tag language.Tag, table string, translations map[string]string) error {
	messages := make([]*goi18n.Message, 0, len(translations))
	for key, other := range translations {
		messages = append(messages, &goi18n.Message{ID: messageID(key, table), Other: other})
	}

	if err := b.bundle.AddMessages(tag, messages...); err != nil {
		return fmt.Errorf("failed to add messages for %s: %w", tag, err)
	}

	return nil
}

// Lookup translates key in the default language.
func (b *Bundle) Lookup(key, table string) string {
	return b.Locale(b.base).Lookup(key, table)
}

// Locale returns a store that prefers tag and falls back to the default language.
func (b *Bundle) Locale(tag language.Tag) Store {
	return &bundleLocale{
		bundle:    b,
		localizer: goi18n.NewLocalizer(b.bundle, tag.String(), b.base.String()),
		tag:       tag,
	}
}

// Matcher matches preferences against the languages that have messages.
func (b *Bundle) Matcher() language.Matcher {
	return language.NewMatcher(sortedTags(b.base, b.bundle.LanguageTags()))
}

func messageID(key, table string) string {
	if tableName(table) == DefaultTable {
		return key
	}

	return table + "." + key
}

type bundleLocale struct {
	bundle    *Bundle
	localizer *goi18n.Localizer
	tag       language.Tag
}

func (l *bundleLocale) Lookup(key, table string) string {
	msg, err := l.localizer.Localize(&goi18n.LocalizeConfig{MessageID: messageID(key, table)})
	if err != nil || msg == "" {
		return l.bundle.opts.missing(localeKey(l.tag), table, key)
	}

	return msg
}
