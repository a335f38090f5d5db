// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/mustache-l10n/mustache-l10n/config"
	"codeberg.org/mustache-l10n/mustache-l10n/server/middleware"
	"codeberg.org/mustache-l10n/mustache-l10n/server/middleware/limiter"
	"codeberg.org/mustache-l10n/mustache-l10n/server/middleware/set_request_context"
)

func (router *Router) RegisterMiddleware() {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.Compress)
	router.Use(middleware.NormalizeURL)                // trailing slashes and locale prefixes
	router.Use(set_request_context.WithRequestContext) // request ID and locale, needed for everything else
	router.Use(middleware.SetResponseHeaders)

	if config.Global.Limiter.Enabled {
		router.Use(limiter.FromConfig(&config.Global).Evaluate)
	}
}
