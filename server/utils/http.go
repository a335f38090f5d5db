// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"net/http"
	"net/netip"
)

// IsConnectionSecure reports whether the client reached the preview server
// over HTTPS, either directly or through a reverse proxy on the local network.
//
// X-Forwarded-Proto is honored only when the peer address is private or
// loopback.
func IsConnectionSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	peer, err := netip.ParseAddrPort(r.RemoteAddr)
	if err != nil {
		return false
	}

	addr := peer.Addr().Unmap()
	if !addr.IsPrivate() && !addr.IsLoopback() {
		return false
	}

	return r.Header.Get("X-Forwarded-Proto") == "https"
}
