// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// readEnv overrides cfg with the L10N_* environment variables named by the
// env struct tags. Unset variables leave the current values alone.
func readEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	return nil
}

// useDotEnv loads a .env file from the working directory, or else from the
// directory of the running binary. Variables already set in the
// environment take precedence.
func useDotEnv() error {
	if cwd, err := os.Getwd(); err != nil {
		log.Warn().
			Err(err).
			Msg("Could not get current working directory")
	} else {
		loaded, err := tryLoadDotEnv(filepath.Join(cwd, ".env"))
		if loaded || err != nil {
			return err
		}
	}

	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}

	_, err := tryLoadDotEnv(filepath.Join(dir, ".env"))

	return err
}

// tryLoadDotEnv loads envPath. A missing file is not an error.
func tryLoadDotEnv(envPath string) (bool, error) {
	if err := godotenv.Load(envPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().
				Str("path", envPath).
				Msg("No .env file found, skipping")

			return false, nil
		}

		return false, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	log.Info().
		Str("path", envPath).
		Msg("Loaded configuration from .env file")

	return true, nil
}
