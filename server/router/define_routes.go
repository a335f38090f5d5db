// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"codeberg.org/mustache-l10n/mustache-l10n/config"
	"codeberg.org/mustache-l10n/mustache-l10n/server/middleware"
	"codeberg.org/mustache-l10n/mustache-l10n/server/routes"
)

// DefineRoutes sets up the routes of the preview server.
//
// It does not register middleware.
func (router *Router) DefineRoutes(preview *routes.Preview) {
	router.HandleFunc("GET /healthz", middleware.CatchError(routes.Healthz))

	// {name...} allows templates in subdirectories.
	router.HandleFunc("GET /render/{name...}", middleware.CatchError(preview.RenderPage))

	router.HandleFunc("GET /lang/{tag}", middleware.CatchError(routes.SetLanguage))

	// /{$} matches only the root path
	router.HandleFunc("GET /{$}", middleware.CatchError(preview.IndexPage))

	// Everything else gets the localized 404 page.
	router.HandleFunc("/", middleware.CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusNotFound)

		return nil
	}))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}
}

// flightRecorder keeps the last minute of execution trace for /debug/flight.
var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

var debugHandlers = map[string]http.HandlerFunc{
	"":        pprof.Index,
	"cmdline": pprof.Cmdline,
	"profile": pprof.Profile,
	"symbol":  pprof.Symbol,
	"trace":   pprof.Trace,
}

// registerDebugRoutes exposes the profiler and the flight recorder. Only
// development builds call it.
func registerDebugRoutes(router *Router) {
	if !flightRecorder.Enabled() {
		if err := flightRecorder.Start(); err != nil {
			panic(err)
		}
	}

	for name, h := range debugHandlers {
		router.HandleFunc("GET /debug/pprof/"+name, h)
	}

	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
