// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "codeberg.org/mustache-l10n/mustache-l10n/mustache"

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8383"

	cfg.Catalog.Dir = ""
	cfg.Catalog.Format = "po"
	cfg.Catalog.DefaultLocale = "en"
	cfg.Catalog.Table = ""
	cfg.Catalog.StrictMissingKeys = false
	cfg.Catalog.MarkMissing = false

	cfg.Render.RawContentType = "html"
	cfg.Render.ContentType = mustache.HTML
	cfg.Render.TemplatesDir = "./templates"
	cfg.Render.DataFile = ""
	cfg.Render.BindingName = "localize"

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = 2.0
	cfg.Limiter.Burst = 120
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48

	cfg.Development.InDevelopment = false
	cfg.Development.SaveRenders = false
	cfg.Development.RenderSaveLocation = "/tmp/mustache-l10n/renders"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
