// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"slices"

	"codeberg.org/mustache-l10n/mustache-l10n/server/middleware"
	"codeberg.org/mustache-l10n/mustache-l10n/server/routes"
)

// Router is the preview server's mux with a middleware chain in front of it.
type Router struct {
	*http.ServeMux

	chain []middleware.Middleware
}

// NewRouter returns a Router with no routes and no middleware.
func NewRouter() *Router {
	return &Router{ServeMux: http.NewServeMux()}
}

// Use appends m to the chain. Middleware added first runs first.
func (router *Router) Use(m middleware.Middleware) {
	router.chain = append(router.chain, m)
}

// ServeHTTP passes r through the chain and then to the matching route.
func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var h http.Handler = router.ServeMux

	for _, m := range slices.Backward(router.chain) {
		h = wrap(m, h)
	}

	h.ServeHTTP(w, r)
}

func wrap(m middleware.Middleware, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m(w, r, next)
	})
}

// New returns a router serving preview with every middleware registered.
func New(preview *routes.Preview) *Router {
	router := NewRouter()

	router.DefineRoutes(preview)
	router.RegisterMiddleware()

	return router
}
