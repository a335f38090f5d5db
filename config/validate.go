// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/mustache-l10n/mustache-l10n/i18n"
	"codeberg.org/mustache-l10n/mustache-l10n/mustache"
)

// validation errors.
var (
	errInvalidPort          = errors.New("invalid Basic.Port value")
	errInvalidCatalogFormat = errors.New("invalid Catalog.Format value")
	errInvalidDefaultLocale = errors.New("invalid Catalog.DefaultLocale value")
	errCatalogDirNotFound   = errors.New("Catalog.Dir does not exist")
	errInvalidContentType   = errors.New("invalid Render.ContentType value")
	errEmptyBindingName     = errors.New("Render.BindingName cannot be empty")
	errInvalidLogLevel      = errors.New("invalid Log.Level value")
	errInvalidLogFormat     = errors.New("invalid Log.Format value")
	errEmptySaveLocation    = errors.New("Development.RenderSaveLocation cannot be empty when saveRenders is enabled")
	errInvalidLimiterRate   = errors.New("Limiter.Rate and Limiter.Burst must be positive")
	errInvalidIPv4Prefix    = errors.New("invalid Limiter.IPv4Prefix value")
	errInvalidIPv6Prefix    = errors.New("invalid Limiter.IPv6Prefix value")
)

const (
	maxPort       = 65535
	ipv4BitLength = 32
	ipv6BitLength = 128
)

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	if cfg.Basic.Host == "" {
		cfg.Basic.Host = "localhost"
		log.Info().
			Str("host", cfg.Basic.Host).
			Msg("Binding to default host")
	}

	if port, err := strconv.Atoi(cfg.Basic.Port); err != nil || port < 1 || port > maxPort {
		return fmt.Errorf("%w: %q", errInvalidPort, cfg.Basic.Port)
	}

	switch cfg.Catalog.Format {
	case i18n.FormatPO, i18n.FormatTOML, i18n.FormatYAML, i18n.FormatTables:
	default:
		return fmt.Errorf("%w: %q", errInvalidCatalogFormat, cfg.Catalog.Format)
	}

	if _, err := language.Parse(cfg.Catalog.DefaultLocale); err != nil {
		return fmt.Errorf("%w: %w", errInvalidDefaultLocale, err)
	}

	if cfg.Catalog.Dir != "" {
		if info, err := os.Stat(cfg.Catalog.Dir); err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", errCatalogDirNotFound, cfg.Catalog.Dir)
		}
	}

	ct, ok := mustache.ParseContentType(cfg.Render.RawContentType)
	if !ok {
		return fmt.Errorf("%w: %q", errInvalidContentType, cfg.Render.RawContentType)
	}

	cfg.Render.ContentType = ct

	if cfg.Render.BindingName == "" {
		return errEmptyBindingName
	}

	switch cfg.Log.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	if cfg.Limiter.Enabled {
		if cfg.Limiter.Rate <= 0 || cfg.Limiter.Burst <= 0 {
			return errInvalidLimiterRate
		}

		if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > ipv4BitLength {
			return fmt.Errorf("%w: %d", errInvalidIPv4Prefix, cfg.Limiter.IPv4Prefix)
		}

		if cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > ipv6BitLength {
			return fmt.Errorf("%w: %d", errInvalidIPv6Prefix, cfg.Limiter.IPv6Prefix)
		}
	}

	if cfg.Development.SaveRenders && cfg.Development.RenderSaveLocation == "" {
		return errEmptySaveLocation
	}

	if cfg.Development.InDevelopment && !cfg.Catalog.StrictMissingKeys {
		log.Info().Msg("Development mode: enabling strict missing keys")

		cfg.Catalog.StrictMissingKeys = true
	}

	return nil
}

// StoreOptions returns the i18n store options selected by the catalog settings.
func (cfg *Config) StoreOptions() []i18n.StoreOption {
	return []i18n.StoreOption{
		i18n.WithStrictMissingKeys(cfg.Catalog.StrictMissingKeys),
		i18n.WithMarkMissing(cfg.Catalog.MarkMissing),
	}
}
