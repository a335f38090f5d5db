// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io"
	"io/fs"
	"maps"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"
)

// Tables is an in-memory [Store] for a single locale.
//
// Tables is not safe for concurrent modification; fill it before sharing it.
type Tables struct {
	locale string
	tables map[string]map[string]string
	opts   storeOptions
}

var _ Localized = (*Tables)(nil)

// NewTables returns empty tables for the base locale.
func NewTables(options ...StoreOption) *Tables {
	return &Tables{
		locale: BaseLocale,
		tables: make(map[string]map[string]string),
		opts:   newStoreOptions(options),
	}
}

// Set stores the translation of key in table.
func (t *Tables) Set(table, key, value string) {
	table = tableName(table)

	if t.tables[table] == nil {
		t.tables[table] = make(map[string]string)
	}

	t.tables[table][key] = value
}

// SetTable merges m into table. The map is copied.
func (t *Tables) SetTable(table string, m map[string]string) {
	table = tableName(table)

	if t.tables[table] == nil {
		t.tables[table] = make(map[string]string, len(m))
	}

	maps.Copy(t.tables[table], m)
}

// Lookup returns the translation of key in table, or key if none is known.
//
// No normalization is performed on keys (for example, case folding,
// NFKC, or whitespace trimming).
func (t *Tables) Lookup(key, table string) string {
	if v, ok := t.tables[tableName(table)][key]; ok {
		return v
	}

	return t.opts.missing(t.locale, table, key)
}

// Locale returns t itself: tables hold a single locale.
func (t *Tables) Locale(language.Tag) Store { return t }

// Matcher matches every preference to the base locale.
func (t *Tables) Matcher() language.Matcher {
	return language.NewMatcher([]language.Tag{baseTag})
}

// LoadTablesYAML decodes tables from r and merges them into t. The
// document maps table names to key/translation maps:
//
//	messages:
//	  "Hello %@": "Bonjour %@"
func (t *Tables) LoadTablesYAML(r io.Reader) error {
	var doc map[string]map[string]string
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode tables: %w", err)
	}

	for table, m := range doc {
		t.SetTable(table, m)
	}

	return nil
}

// LoadTablesFS reads the named YAML files from fsys into new tables.
func LoadTablesFS(fsys fs.FS, names []string, options ...StoreOption) (*Tables, error) {
	t := NewTables(options...)

	for _, name := range names {
		if err := loadTablesFile(t, fsys, name); err != nil {
			return nil, err
		}

		Logger.Info().Str("file", name).Msg("Loaded translation tables")
	}

	return t, nil
}

func loadTablesFile(t *Tables, fsys fs.FS, name string) error {
	file, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open tables file: %w", err)
	}
	defer file.Close()

	if err := t.LoadTablesYAML(file); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}
