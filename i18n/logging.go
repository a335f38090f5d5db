// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// Logger is the logger used by package i18n.
var Logger = log.With().Str("sys", "i18n").Logger()

// SetLogger replaces [Logger], tagging l with the package's sys field.
func SetLogger(l zerolog.Logger) {
	Logger = l.With().Str("sys", "i18n").Logger()
}

type missingKey struct {
	locale, table, key string
}

// warnedMissing holds every missingKey already reported in strict mode.
var warnedMissing sync.Map

func warnMissing(locale, table, key string) {
	k := missingKey{locale: locale, table: tableName(table), key: key}
	if _, seen := warnedMissing.LoadOrStore(k, struct{}{}); seen {
		return
	}

	Logger.Warn().
		Str("locale", k.locale).
		Str("table", k.table).
		Str("key", k.key).
		Msg("Missing i18n translation")
}

// localeKey drops variants and extensions from tag, keeping language,
// script and region.
func localeKey(tag language.Tag) string {
	base, script, region := tag.Raw()

	t, _ := language.Compose(base, script, region)

	return t.String()
}
