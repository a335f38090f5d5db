// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware of the preview server.

Each [Middleware] receives the next handler explicitly; package router chains
them in the order they are registered.
*/
package middleware
