// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"

	"golang.org/x/text/language"
)

// DefaultTable is the table used when a lookup names none.
const DefaultTable = "messages"

// Store looks up translations.
//
// Lookup returns the translation of key in table, or key itself when none
// is known. An empty table means [DefaultTable]. Implementations must be
// safe for concurrent lookups.
type Store interface {
	Lookup(key, table string) string
}

// Localized is a store holding several locales.
type Localized interface {
	Store

	// Locale returns a store bound to the best match for tag.
	Locale(tag language.Tag) Store

	// Matcher matches user preferences against the loaded locales.
	Matcher() language.Matcher
}

// StoreFunc adapts a function to the [Store] interface.
type StoreFunc func(key, table string) string

// Lookup calls f(key, table).
func (f StoreFunc) Lookup(key, table string) string {
	return f(key, table)
}

var (
	defaultMu    sync.RWMutex
	defaultStore Store = NewTables()
)

// Default returns the process-wide store.
func Default() Store {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultStore
}

// SetDefault replaces the process-wide store. A nil s installs an empty
// [Tables], so every lookup falls back to its key.
func SetDefault(s Store) {
	if s == nil {
		s = NewTables()
	}

	defaultMu.Lock()
	defaultStore = s
	defaultMu.Unlock()
}

func tableName(table string) string {
	if table == "" {
		return DefaultTable
	}

	return table
}
