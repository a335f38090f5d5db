// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n provides the translation stores consulted by package localizer.

A [Store] maps a source string, looked up in a named table, to its
translation. Every store falls back to the source string itself when no
translation is known, so a lookup never fails.

# Backends

  - [Tables]: in-memory tables, loadable from YAML.
  - [Catalog]: GNU gettext .po catalogues laid out as <table>/<locale>.po.
    The table is the gettext domain.
  - [Bundle]: go-i18n message files in TOML or YAML. A table other than
    [DefaultTable] addresses the message id "<table>.<key>".

[Catalog] and [Bundle] hold several locales; [Localized.Locale] returns
a store bound to one of them.

# Default store

[Default] returns the process-wide store used by localizers created
without an explicit one. [Setup] installs it from the configured
catalogue directory.

# Missing translations

By default, missing translations return the key unchanged. With
[WithStrictMissingKeys], missing lookups are logged once per
locale+table+key. With [WithMarkMissing] the returned text is visibly
wrapped as "⟦...⟧".
*/
package i18n
