// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/mustache-l10n/mustache-l10n/server/utils"
)

func TestSanitizeReturnPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"/render/greeting?lang=fr", "/render/greeting?lang=fr"},
		{" /render/greeting ", "/render/greeting"},
		{"render/greeting", ""},
		{"https://example.com/", ""},
		{"//example.com", ""},
		{"/\\example.com", ""},
		{"/redirect?to=https://example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, utils.SanitizeReturnPath(tt.in))
		})
	}
}

func TestGetQueryParam(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?lang=fr&empty=", nil)

	assert.Equal(t, "fr", utils.GetQueryParam(r, "lang"))
	assert.Equal(t, "fr", utils.GetQueryParam(r, "lang", "en"))
	assert.Equal(t, "en", utils.GetQueryParam(r, "empty", "en"))
	assert.Empty(t, utils.GetQueryParam(r, "missing"))
}

func TestGetPathVar(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/lang/fr", nil)
	r.SetPathValue("tag", "fr")

	assert.Equal(t, "fr", utils.GetPathVar(r, "tag"))
	assert.Equal(t, "auto", utils.GetPathVar(r, "other", "auto"))
}

func TestIsConnectionSecure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		proto      string
		tls        bool
		want       bool
	}{
		{"direct TLS", "203.0.113.7:443", "", true, true},
		{"plain public", "203.0.113.7:1234", "", false, false},
		{"private proxy https", "10.0.0.2:1234", "https", false, true},
		{"loopback proxy https", "127.0.0.1:1234", "https", false, true},
		{"public proxy https", "203.0.113.7:1234", "https", false, false},
		{"private proxy http", "10.0.0.2:1234", "http", false, false},
		{"unparsable address", "nonsense", "https", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr

			if tt.proto != "" {
				r.Header.Set("X-Forwarded-Proto", tt.proto)
			}

			if tt.tls {
				r.TLS = &tls.ConnectionState{}
			}

			assert.Equal(t, tt.want, utils.IsConnectionSecure(r))
		})
	}
}
