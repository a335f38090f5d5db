// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompress(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("Bonjour le monde. ", 200)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body)
	})

	t.Run("accepted", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/render/greeting", nil)
		r.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()

		Compress(w, r, next)

		assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
		assert.Contains(t, w.Header().Values("Vary"), "Accept-Encoding")

		zr, err := gzip.NewReader(w.Body)
		require.NoError(t, err)

		got, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, body, string(got))
	})

	t.Run("not accepted", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/render/greeting", nil)
		w := httptest.NewRecorder()

		Compress(w, r, next)

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, body, w.Body.String())
	})
}
