// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url      string
		status   int
		location string
	}{
		{"/", http.StatusOK, ""},
		{"/render/greeting", http.StatusOK, ""},
		{"/render/greeting/", http.StatusPermanentRedirect, "/render/greeting"},
		{"/render/greeting/?lang=fr", http.StatusPermanentRedirect, "/render/greeting?lang=fr"},
		{"/fr/render/greeting", http.StatusMovedPermanently, "/render/greeting?lang=fr"},
		{"/pt-BR/render/mail/inbox", http.StatusMovedPermanently, "/render/mail/inbox?lang=pt-BR"},
		// the prefix replaces any lang already in the query
		{"/ja/render/greeting?lang=fr&page=2", http.StatusMovedPermanently, "/render/greeting?lang=ja&page=2"},
		{"/fr/healthz", http.StatusOK, ""},
		{"/not!a!locale/render/greeting", http.StatusOK, ""},
	}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			Wrap(NormalizeURL, ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.location, rr.Header().Get("Location"))
		})
	}
}

func TestHasTrailingSlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		expected bool
	}{
		{"/", false},
		{"/render", false},
		{"/render/", true},
		{"/render/mail/inbox/", true},
		{"/render/mail/inbox", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)

			assert.Equal(t, tt.expected, hasTrailingSlash(req))
		})
	}
}

func TestLocalePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path       string
		wantLocale string
		wantRest   string
		wantOK     bool
	}{
		{"/fr/render/greeting", "fr", "/render/greeting", true},
		{"/en-GB/render/a/b", "en-GB", "/render/a/b", true},
		{"/fr/render", "fr", "/render", true},
		{"/fr/", "", "", false},
		{"/fr", "", "", false},
		{"/render/greeting", "", "", false},
		{"/fr/rendering", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			locale, rest, ok := localePrefix(httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantLocale, locale)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}
