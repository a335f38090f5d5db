// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/rs/zerolog/log"
)

// clientAddr returns the address of the client that sent r.
//
// X-Real-IP, then the last hop of X-Forwarded-For, replace the peer address
// only when the peer is a private or loopback address, such as a reverse
// proxy on the same host or network.
func clientAddr(r *http.Request) (netip.Addr, bool) {
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	peer, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}

	peer = peer.Unmap()

	forwarded := forwardedFor(r.Header)
	if forwarded == "" {
		return peer, true
	}

	if !peer.IsPrivate() && !peer.IsLoopback() {
		log.Warn().
			Str("peer", peer.String()).
			Msg("Ignoring proxy headers from a public address")

		return peer, true
	}

	addr, err := netip.ParseAddr(forwarded)
	if err != nil {
		return netip.Addr{}, false
	}

	return addr.Unmap(), true
}

// forwardedFor returns the client address reported by a proxy, if any.
func forwardedFor(h http.Header) string {
	if v := strings.TrimSpace(h.Get("X-Real-IP")); v != "" {
		return v
	}

	xff := h.Get("X-Forwarded-For")
	if xff == "" {
		return ""
	}

	// The closest proxy appends last.
	return strings.TrimSpace(xff[strings.LastIndexByte(xff, ',')+1:])
}

// network returns the prefix that groups addr with its neighbours.
func network(addr netip.Addr, ipv4Bits, ipv6Bits int) netip.Prefix {
	bits := ipv6Bits
	if addr.Is4() {
		bits = ipv4Bits
	}

	p, err := addr.Prefix(bits)
	if err != nil {
		return netip.PrefixFrom(addr, addr.BitLen())
	}

	return p
}
