// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package localizer

import (
	"strconv"
	"strings"
)

// Marker is the positional marker that replaces each placeholder in a key.
const Marker = "%@"

// EscapeAndMark turns a skeleton rendering into a lookup key: every "%" is
// doubled, then every occurrence of placeholder becomes [Marker].
func EscapeAndMark(skeleton, placeholder string) string {
	key := strings.ReplaceAll(skeleton, "%", "%%")

	return strings.ReplaceAll(key, placeholder, Marker)
}

// ApplyArguments substitutes args into format.
//
// "%@" takes the next argument, "%N$@" takes argument N (1-based) and "%%"
// is a literal "%". Any other "%" sequence is copied as is. Arguments the
// format does not use are ignored. Referencing a missing argument returns
// an [*ArityError].
func ApplyArguments(format string, args []string) (string, error) {
	var (
		b    strings.Builder
		next int
		want int
	)

	b.Grow(len(format))

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 == len(format) {
			b.WriteByte(c)
			continue
		}

		switch format[i+1] {
		case '%':
			b.WriteByte('%')
			i++

			continue
		case '@':
			next++
			want = max(want, next)

			if next <= len(args) {
				b.WriteString(args[next-1])
			}

			i++

			continue
		}

		n, width := explicitIndex(format[i+1:])
		if width == 0 {
			b.WriteByte(c)
			continue
		}

		want = max(want, n)

		if n <= len(args) {
			b.WriteString(args[n-1])
		}

		i += width
	}

	if want > len(args) {
		return "", &ArityError{Format: format, Want: want, Got: len(args)}
	}

	return b.String(), nil
}

// explicitIndex parses "N$@" at the start of s. It returns N and the number
// of bytes consumed, or a zero width if s does not start with one.
func explicitIndex(s string) (int, int) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == 0 || !strings.HasPrefix(s[end:], "$@") {
		return 0, 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return 0, 0
	}

	return n, end + 2
}
