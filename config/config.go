// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/mustache-l10n/mustache-l10n/core/idgen"
	"codeberg.org/mustache-l10n/mustache-l10n/mustache"
)

// Global exposes the application configuration.
var Global Config

// Config holds the application configuration.
type Config struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host string `env:"L10N_HOST" yaml:"host"`
		Port string `env:"L10N_PORT" yaml:"port"`
	} `yaml:"basic"`

	Catalog struct {
		// Dir holds the translations. An empty Dir leaves every lookup
		// falling back to its key.
		Dir           string `env:"L10N_CATALOG_DIR"    yaml:"dir"`
		Format        string `env:"L10N_CATALOG_FORMAT" yaml:"format"`
		DefaultLocale string `env:"L10N_DEFAULT_LOCALE" yaml:"defaultLocale"`
		Table         string `env:"L10N_TABLE"          yaml:"table"`

		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged, deduplicated per
		// locale+table+key.
		StrictMissingKeys bool `env:"L10N_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`

		// MarkMissing visibly wraps missing keys using markers.
		MarkMissing bool `env:"L10N_MARK_MISSING" yaml:"markMissing"`
	} `yaml:"catalog"`

	Render struct {
		RawContentType string               `env:"L10N_CONTENT_TYPE" yaml:"contentType"`
		ContentType    mustache.ContentType `yaml:"-"`
		TemplatesDir   string               `env:"L10N_TEMPLATES_DIR" yaml:"templatesDir"`
		DataFile       string               `env:"L10N_DATA_FILE"     yaml:"dataFile"`
		BindingName    string               `env:"L10N_BINDING_NAME"  yaml:"bindingName"`
	} `yaml:"render"`

	Limiter struct {
		Enabled bool `env:"L10N_LIMITER_ENABLED" yaml:"enabled"`

		// Rate is the sustained number of requests per second allowed for
		// one network, and Burst the number allowed at once.
		Rate  float64 `env:"L10N_LIMITER_RATE"  yaml:"rate"`
		Burst int     `env:"L10N_LIMITER_BURST" yaml:"burst"`

		// Clients are grouped into networks of these prefix lengths.
		IPv4Prefix int `env:"L10N_LIMITER_IPV4_PREFIX" yaml:"ipv4Prefix"`
		IPv6Prefix int `env:"L10N_LIMITER_IPV6_PREFIX" yaml:"ipv6Prefix"`
	} `yaml:"limiter"`

	Instance struct {
		StartingTime string `yaml:"-"`
		ID           string `yaml:"-"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment      bool   `env:"L10N_DEV"                  yaml:"inDevelopment"`
		SaveRenders        bool   `env:"L10N_SAVE_RENDERS"         yaml:"saveRenders"`
		RenderSaveLocation string `env:"L10N_RENDER_SAVE_LOCATION" yaml:"renderSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"L10N_LOG_LEVEL"   yaml:"logLevel"`
		Outputs []string `env:"L10N_LOG_OUTPUTS" yaml:"logOutputs"`
		Format  string   `env:"L10N_LOG_FORMAT"  yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from its defaults, the YAML file, a
// .env file and the environment, in increasing precedence.
func (cfg *Config) LoadConfig() error {
	return cfg.load(resolveConfigPath())
}

// load runs every stage after the config file path is known.
func (cfg *Config) load(configFilePath string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.ID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

// BaseTag returns the tag of the default locale.
func (cfg *Config) BaseTag() language.Tag {
	tag, err := language.Parse(cfg.Catalog.DefaultLocale)
	if err != nil {
		log.Warn().
			Err(err).
			Str("locale", cfg.Catalog.DefaultLocale).
			Msg("Invalid default locale, using base locale")

		return language.English
	}

	return tag
}

// skippedPathPrefixes are polled by health checks.
var skippedPathPrefixes = []string{"/healthz"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *Config) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range skippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
