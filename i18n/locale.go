// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"
	"sort"

	"golang.org/x/text/language"
)

// BaseLocale is the default locale used when no specific locale is set.
const BaseLocale = "en"

// baseTag is the canonical tag for BaseLocale.
var baseTag = language.Make(BaseLocale)

// sortedTags returns a copy of tags with base first and the rest sorted by
// tag string. base is added if missing.
func sortedTags(base language.Tag, tags []language.Tag) []language.Tag {
	rest := make([]language.Tag, 0, len(tags))

	for _, t := range tags {
		if t != base && !slices.Contains(rest, t) {
			rest = append(rest, t)
		}
	}

	sort.Slice(rest, func(i, j int) bool { return rest[i].String() < rest[j].String() })

	return append([]language.Tag{base}, rest...)
}
