// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func poFile(lang string, pairs ...string) *fstest.MapFile {
	return poFileWithPlural(lang, "", pairs...)
}

// poFileWithPlural writes a Plural-Forms header unless plural is empty.
func poFileWithPlural(lang, plural string, pairs ...string) *fstest.MapFile {
	data := "msgid \"\"\nmsgstr \"\"\n\"Language: " + lang + "\\n\"\n\"Content-Type: text/plain; charset=UTF-8\\n\"\n"
	if plural != "" {
		data += "\"Plural-Forms: " + plural + "\\n\"\n"
	}

	for i := 0; i+1 < len(pairs); i += 2 {
		data += "\nmsgid \"" + pairs[i] + "\"\nmsgstr \"" + pairs[i+1] + "\"\n"
	}

	return &fstest.MapFile{Data: []byte(data)}
}

func testCatalogFS() fstest.MapFS {
	return fstest.MapFS{
		"messages/fr.po":       poFile("fr", "Hello %@", "Bonjour %@", "%@ of %@", "%2$@ sur %1$@"),
		"messages/pt_BR.po":    poFile("pt_BR", "Hello %@", "Olá %@"),
		"messages/messages.pot": {Data: []byte("msgid \"\"\nmsgstr \"\"\n")},
		"messages/bogus!.po":   poFile("bogus"),
		"errors/fr.po":         poFile("fr", "Not found", "Introuvable"),
		"README.md":            {Data: []byte("not a table")},
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	c, err := LoadCatalog(testCatalogFS(), language.English)
	require.NoError(t, err)

	assert.Equal(t, []string{"errors", "messages"}, c.Tables())
	assert.Equal(t,
		[]language.Tag{language.English, language.French, language.MustParse("pt-BR")},
		c.Languages())
}

func TestCatalogLookup(t *testing.T) {
	t.Parallel()

	c, err := LoadCatalog(testCatalogFS(), language.English)
	require.NoError(t, err)

	tests := []struct {
		name  string
		tag   language.Tag
		key   string
		table string
		want  string
	}{
		{name: "french", tag: language.French, key: "Hello %@", want: "Bonjour %@"},
		{name: "regional variant matches", tag: language.MustParse("fr-CA"), key: "Hello %@", want: "Bonjour %@"},
		{name: "reordered arguments", tag: language.French, key: "%@ of %@", want: "%2$@ sur %1$@"},
		{name: "underscore file name", tag: language.MustParse("pt-BR"), key: "Hello %@", want: "Olá %@"},
		{name: "named table", tag: language.French, key: "Not found", table: "errors", want: "Introuvable"},
		{name: "key in other table", tag: language.French, key: "Not found", want: "Not found"},
		{name: "unsupported language", tag: language.German, key: "Hello %@", want: "Hello %@"},
		{name: "base has no catalogue", tag: language.English, key: "Hello %@", want: "Hello %@"},
		{name: "unknown key", tag: language.French, key: "Goodbye", want: "Goodbye"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, c.Locale(tt.tag).Lookup(tt.key, tt.table))
		})
	}

	assert.Equal(t, "Hello %@", c.Lookup("Hello %@", ""), "Lookup uses the base locale")
}

func TestCatalogLookupPluralForms(t *testing.T) {
	t.Parallel()

	c, err := LoadCatalog(fstest.MapFS{
		"messages/de.po": poFileWithPlural("de", "nplurals=2; plural=(n != 1);", "Hello %@", "Hallo %@"),
		"messages/fr.po": poFileWithPlural("fr", "nplurals=2; plural=(n > 1);", "Hello %@", "Bonjour %@"),
		"messages/ja.po": poFileWithPlural("ja", "nplurals=1; plural=0;", "Hello %@", "こんにちは %@"),
		"messages/ar.po": poFileWithPlural("ar",
			"nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);",
			"Hello %@", "مرحبا %@"),
	}, language.English)
	require.NoError(t, err)

	tests := []struct {
		tag  string
		want string
	}{
		{"de", "Hallo %@"},
		{"fr", "Bonjour %@"},
		{"ja", "こんにちは %@"},
		{"ar", "مرحبا %@"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()

			l := c.Locale(language.MustParse(tt.tag))
			assert.Equal(t, tt.want, l.Lookup("Hello %@", ""))
			assert.Equal(t, "Goodbye", l.Lookup("Goodbye", ""))
		})
	}
}

func TestCatalogFromContext(t *testing.T) {
	t.Parallel()

	c, err := LoadCatalog(testCatalogFS(), language.English)
	require.NoError(t, err)

	ctx := WithTag(context.Background(), language.French)
	assert.Equal(t, "Bonjour %@", c.FromContext(ctx).Lookup("Hello %@", ""))
	assert.Equal(t, "Bonjour %@", ForContext(ctx, c).Lookup("Hello %@", ""))
	assert.Equal(t, "Hello %@", c.FromContext(context.Background()).Lookup("Hello %@", ""))
}
