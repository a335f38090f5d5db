// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits HTTP requests per client network.

Clients are grouped by their IP network; every network shares one token bucket.
*/
package limiter
