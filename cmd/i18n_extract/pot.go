// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"time"

	"codeberg.org/mustache-l10n/mustache-l10n/config"
	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
)

// key models a gettext entry: a msgid in one translation table.
// Tables map to separate catalogs, so the table never appears in the output.
type key struct {
	table string
	id    string
}

// ref is a source reference. A zero line refers to the whole file.
type ref struct {
	file string
	line int
}

func (r ref) String() string {
	if r.line == 0 {
		return r.file
	}

	return fmt.Sprintf("%s:%d", r.file, r.line)
}

// refs collects the references of every extracted key.
type refs map[key][]ref

func (rs refs) add(k key, r ref) {
	if k.id == "" {
		return
	}

	k.table = tableName(k.table)
	rs[k] = append(rs[k], r)
}

func (rs refs) merge(other refs) {
	for k, v := range other {
		rs[k] = append(rs[k], v...)
	}
}

// tables returns the tables that have keys, sorted.
func (rs refs) tables() []string {
	var out []string

	for k := range rs {
		if !slices.Contains(out, k.table) {
			out = append(out, k.table)
		}
	}

	sort.Strings(out)

	return out
}

func tableName(table string) string {
	if table == "" {
		return i18n.DefaultTable
	}

	return table
}

// writePOT writes the entries of table as a gettext template.
func writePOT(w io.Writer, rs refs, table string, now time.Time) error {
	var ids []string

	for k := range rs {
		if k.table == table {
			ids = append(ids, k.id)
		}
	}

	sort.Strings(ids)

	var b strings.Builder
	writeHeader(&b, now)

	for i, id := range ids {
		refList := rs[key{table: table, id: id}]
		sort.Slice(refList, func(i, j int) bool {
			if refList[i].file != refList[j].file {
				return refList[i].file < refList[j].file
			}

			return refList[i].line < refList[j].line
		})

		// After sorting, duplicates are adjacent.
		fmt.Fprint(&b, "#:")

		var last ref
		for j, r := range refList {
			if j == 0 || r != last {
				fmt.Fprintf(&b, " %s", r)

				last = r
			}
		}

		fmt.Fprintln(&b)

		if isFormat(id) {
			fmt.Fprintln(&b, "#, objc-format")
		}

		fmt.Fprintf(&b, "msgid %s\n", poQuote(id))
		fmt.Fprintf(&b, "msgstr \"\"\n")

		if i < len(ids)-1 {
			fmt.Fprintln(&b)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// poEscaper covers the escapes PO strings define. Everything else, UTF-8
// included, is written as is.
var poEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

func poQuote(s string) string {
	return `"` + poEscaper.Replace(s) + `"`
}

// isFormat reports whether id has argument markers, as keys of sections
// with variables do.
func isFormat(id string) bool {
	return strings.Contains(id, "%@") || strings.Contains(id, "$@")
}

// writeHeader emits a POT header.
func writeHeader(b *strings.Builder, now time.Time) {
	fmt.Fprintln(b, `msgid ""`)
	fmt.Fprintln(b, `msgstr ""`)
	fmt.Fprintf(b, "\"Project-Id-Version: mustache-l10n %s\\n\"\n", config.BuildVersion)
	fmt.Fprintf(b, "\"POT-Creation-Date: %s\\n\"\n", now.UTC().Format("2006-01-02 15:04+0000"))
	fmt.Fprintln(b, `"Language: en\n"`)
	fmt.Fprintln(b, `"MIME-Version: 1.0\n"`)
	fmt.Fprintln(b, `"Content-Type: text/plain; charset=UTF-8\n"`)
	fmt.Fprintln(b, `"Content-Transfer-Encoding: 8bit\n"`)
	fmt.Fprintln(b)
}
