// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"codeberg.org/mustache-l10n/mustache-l10n/mustache"
)

// LocalizeValue returns the translation of r's text, keeping its content type.
// No format substitution takes place.
func (l *Localizer) LocalizeValue(r mustache.Rendering) mustache.Rendering {
	return mustache.Rendering{
		Text:        l.lookup(r.Text),
		ContentType: r.ContentType,
	}
}

// FilterRendering makes l callable as a filter, as in {{localize(title)}}.
func (l *Localizer) FilterRendering(r mustache.Rendering) (mustache.Rendering, error) {
	return l.LocalizeValue(r), nil
}
