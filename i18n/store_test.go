// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesLookup(t *testing.T) {
	t.Parallel()

	tables := NewTables()
	tables.Set("", "Hello %@", "Bonjour %@")
	tables.SetTable("errors", map[string]string{"Not found": "Introuvable"})

	tests := []struct {
		name  string
		key   string
		table string
		want  string
	}{
		{name: "empty table is the default table", key: "Hello %@", want: "Bonjour %@"},
		{name: "explicit default table", key: "Hello %@", table: DefaultTable, want: "Bonjour %@"},
		{name: "named table", key: "Not found", table: "errors", want: "Introuvable"},
		{name: "wrong table falls back to key", key: "Not found", want: "Not found"},
		{name: "unknown table falls back to key", key: "Hello %@", table: "nope", want: "Hello %@"},
		{name: "keys are not normalized", key: "hello %@", want: "hello %@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tables.Lookup(tt.key, tt.table))
		})
	}
}

func TestTablesLoadYAML(t *testing.T) {
	t.Parallel()

	doc := `
messages:
  "Hello %@": "Bonjour %@"
  "100%% sure": "Sûr à 100%%"
errors:
  "Not found": "Introuvable"
`

	tables := NewTables()
	require.NoError(t, tables.LoadTablesYAML(strings.NewReader(doc)))

	assert.Equal(t, "Bonjour %@", tables.Lookup("Hello %@", ""))
	assert.Equal(t, "Sûr à 100%%", tables.Lookup("100%% sure", ""))
	assert.Equal(t, "Introuvable", tables.Lookup("Not found", "errors"))

	err := tables.LoadTablesYAML(strings.NewReader("- not\n- a map\n"))
	require.Error(t, err)
}

func TestLoadTablesFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("messages:\n  Save: Enregistrer\n")},
		"b.yaml": {Data: []byte("messages:\n  Quit: Quitter\n  Save: Sauver\n")},
	}

	tables, err := LoadTablesFS(fsys, []string{"a.yaml", "b.yaml"})
	require.NoError(t, err)

	assert.Equal(t, "Quitter", tables.Lookup("Quit", ""))
	assert.Equal(t, "Sauver", tables.Lookup("Save", ""), "later files override earlier ones")

	_, err = LoadTablesFS(fsys, []string{"missing.yaml"})
	require.Error(t, err)
}

func TestStoreFunc(t *testing.T) {
	t.Parallel()

	var s Store = StoreFunc(func(key, table string) string {
		return table + ":" + strings.ToUpper(key)
	})

	assert.Equal(t, "t:ABC", s.Lookup("abc", "t"))
}

func TestDefaultStore(t *testing.T) {
	resetForTests(t)

	SetDefault(StoreFunc(func(key, _ string) string { return "x" + key }))
	assert.Equal(t, "xkey", Default().Lookup("key", ""))

	SetDefault(nil)
	assert.Equal(t, "key", Default().Lookup("key", ""), "nil installs an empty store")
}

func TestMissingKeys(t *testing.T) {
	resetForTests(t)

	var buf bytes.Buffer

	prev := Logger
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { Logger = prev })

	marked := NewTables(WithMarkMissing(true))
	assert.Equal(t, "⟦Hello⟧", marked.Lookup("Hello", ""))

	strict := NewTables(WithStrictMissingKeys(true))
	assert.Equal(t, "Hello", strict.Lookup("Hello", ""))
	assert.Equal(t, "Hello", strict.Lookup("Hello", ""))
	assert.Equal(t, "Hello", strict.Lookup("Hello", "errors"))

	logs := buf.String()
	assert.Equal(t, 2, strings.Count(logs, "Missing i18n translation"), "one warning per table and key")
	assert.Contains(t, logs, `"sys":"i18n"`)
}
