// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// readYAML overlays the file at path onto cfg. A missing file is not an
// error; unknown keys are.
func (cfg *Config) readYAML(path string) error {
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info().Str("path", path).Msg("No YAML configuration file found, skipping")

		return nil
	case err != nil:
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.UnmarshalWithOptions(raw, cfg, yaml.Strict()); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("Loaded configuration file")

	return nil
}
