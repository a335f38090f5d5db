// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"golang.org/x/text/language"
)

// Catalogue formats accepted by [Open].
const (
	FormatPO     = "po"
	FormatTOML   = "toml"
	FormatYAML   = "yaml"
	FormatTables = "tables"
)

// ErrUnknownFormat is returned by [Open] for an unsupported catalogue format.
var ErrUnknownFormat = errors.New("unknown catalog format")

// Open loads the translations stored in fsys using format.
//
// The layout depends on format:
//
//	po:     <table>/<locale>.po
//	toml:   *.<locale>.toml (go-i18n message files)
//	yaml:   *.<locale>.yaml (go-i18n message files)
//	tables: *.yaml (table → key → translation, single locale)
func Open(fsys fs.FS, format string, base language.Tag, options ...StoreOption) (Localized, error) {
	switch format {
	case FormatPO, "":
		return LoadCatalog(fsys, base, options...)

	case FormatTOML, FormatYAML:
		names, err := globSorted(fsys, "*."+format)
		if err != nil {
			return nil, err
		}

		b := NewBundle(base, options...)
		if err := b.LoadFS(fsys, names...); err != nil {
			return nil, err
		}

		return b, nil

	case FormatTables:
		names, err := globSorted(fsys, "*.yaml")
		if err != nil {
			return nil, err
		}

		return LoadTablesFS(fsys, names, options...)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Setup loads translations with [Open] and installs them as the [Default] store.
//
// Calling Setup again replaces the previously installed store.
func Setup(fsys fs.FS, format string, base language.Tag, options ...StoreOption) (Localized, error) {
	s, err := Open(fsys, format, base, options...)
	if err != nil {
		return nil, err
	}

	SetDefault(s)

	Logger.Info().
		Str("format", format).
		Str("base", base.String()).
		Msg("Installed default translation store")

	return s, nil
}

func globSorted(fsys fs.FS, pattern string) ([]string, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", pattern, err)
	}

	sort.Strings(names)

	return names, nil
}
