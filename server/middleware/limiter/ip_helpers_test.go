// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		header     http.Header
		want       string // empty when no address can be trusted
	}{
		{name: "peer", remoteAddr: "198.51.100.4:5000", want: "198.51.100.4"},
		{name: "peer without port", remoteAddr: "198.51.100.4", want: "198.51.100.4"},
		{name: "mapped IPv4", remoteAddr: "[::ffff:198.51.100.4]:5000", want: "198.51.100.4"},
		{
			name:       "X-Real-IP from loopback",
			remoteAddr: "127.0.0.1:5000",
			header:     http.Header{"X-Real-Ip": {"203.0.113.9"}},
			want:       "203.0.113.9",
		},
		{
			name:       "last X-Forwarded-For hop from a private peer",
			remoteAddr: "10.0.0.2:5000",
			header:     http.Header{"X-Forwarded-For": {"192.0.2.1, 203.0.113.9 "}},
			want:       "203.0.113.9",
		},
		{
			name:       "X-Real-IP wins over X-Forwarded-For",
			remoteAddr: "[::1]:5000",
			header: http.Header{
				"X-Real-Ip":       {"2001:db8::9"},
				"X-Forwarded-For": {"192.0.2.1"},
			},
			want: "2001:db8::9",
		},
		{
			name:       "proxy headers from a public peer",
			remoteAddr: "198.51.100.4:5000",
			header:     http.Header{"X-Real-Ip": {"203.0.113.9"}},
			want:       "198.51.100.4",
		},
		{name: "garbage peer", remoteAddr: "not-an-ip"},
		{
			name:       "garbage forwarded address",
			remoteAddr: "127.0.0.1:5000",
			header:     http.Header{"X-Forwarded-For": {"unknown"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			addr, ok := clientAddr(&http.Request{RemoteAddr: tt.remoteAddr, Header: tt.header})

			if tt.want == "" {
				assert.False(t, ok)

				return
			}

			assert.True(t, ok)
			assert.Equal(t, tt.want, addr.String())
		})
	}
}

func TestNetwork(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr string
		want string
	}{
		{addr: "203.0.113.77", want: "203.0.113.0/24"},
		{addr: "2001:db8:aa:bb::1", want: "2001:db8:aa::/48"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, network(netip.MustParseAddr(tt.addr), 24, 48).String(), tt.addr)
	}

	assert.Equal(t, "203.0.113.77/32", network(netip.MustParseAddr("203.0.113.77"), 40, 48).String())
}
