// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/mustache-l10n/mustache-l10n/config"
	"codeberg.org/mustache-l10n/mustache-l10n/core/render"
	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// Tests here share config.Global and the default store, so they don't run
// in parallel.
func TestRenderFile(t *testing.T) {
	config.Global.SetDefaults()

	dir := t.TempDir()
	writeFile(t, dir, "catalog/active.fr.toml", `"Hello %@" = "Bonjour %@"`+"\n")
	tmpl := writeFile(t, dir, "greeting.mustache", "{{#localize}}Hello {{name}}{{/localize}} & co")

	cfg := config.Global
	cfg.Catalog.Dir = filepath.Join(dir, "catalog")
	cfg.Catalog.Format = i18n.FormatTOML

	previous := i18n.Default()
	t.Cleanup(func() { i18n.SetDefault(previous) })

	require.NoError(t, setupCatalog(&cfg))

	data, err := render.ParseData([]byte("name: <Arthur>"))
	require.NoError(t, err)

	tests := []struct {
		name string
		tag  language.Tag
		want string
	}{
		{name: "base", tag: language.English, want: "Hello &lt;Arthur&gt; & co"},
		{name: "french", tag: language.French, want: "Bonjour &lt;Arthur&gt; & co"},
		{name: "regional", tag: language.MustParse("fr-CA"), want: "Bonjour &lt;Arthur&gt; & co"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder

			require.NoError(t, renderFile(i18n.WithTag(context.Background(), tt.tag), &b, tmpl, data))
			assert.Equal(t, tt.want, b.String())
		})
	}
}

func TestRenderFileMissing(t *testing.T) {
	config.Global.SetDefaults()

	err := renderFile(context.Background(), &strings.Builder{}, filepath.Join(t.TempDir(), "nope.mustache"), nil)
	require.ErrorIs(t, err, render.ErrTemplateNotFound)
}

func TestSetupCatalogWithoutDir(t *testing.T) {
	cfg := config.Config{}
	cfg.SetDefaults()

	previous := i18n.Default()

	require.NoError(t, setupCatalog(&cfg))
	assert.Equal(t, previous, i18n.Default())
}
