// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short identifiers for requests, renders and instances.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

const (
	timeLength    = 6
	entropyBytes  = 3
	maxIDLength   = 64
	entropyLength = 4 // base64 of entropyBytes
)

// Make makes a short ID from the wall clock time of day and 3 bytes of entropy.
func Make() string {
	var entropy [entropyBytes]byte

	_, _ = rand.Read(entropy[:])

	return maketime(time.Now()) + base64.RawURLEncoding.EncodeToString(entropy[:])
}

// Valid reports whether id is safe to reuse as a request ID taken from a
// client: non-empty, short, and limited to the URL-safe base64 alphabet.
func Valid(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}

	return true
}

func maketime(t time.Time) string {
	return t.Format("150405")
}
