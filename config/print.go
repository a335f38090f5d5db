// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// print announces the resolved configuration. The full YAML dump is only
// written in development.
func (cfg *Config) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("instance", cfg.Instance.ID).
		Str("templates", cfg.Render.TemplatesDir).
		Str("catalog", cfg.Catalog.Dir).
		Str("format", cfg.Catalog.Format).
		Str("locale", cfg.Catalog.DefaultLocale).
		Msg("Starting mustache-l10n")

	if !cfg.Development.InDevelopment {
		return
	}

	dump, err := yaml.MarshalWithOptions(cfg, yaml.Indent(2))
	if err != nil {
		log.Error().Err(err).Msg("Could not dump configuration")

		return
	}

	log.Info().Msg("Resolved configuration:")

	_, _ = os.Stderr.Write(dump)
}
