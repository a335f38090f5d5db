// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"os"
)

const (
	configFlag    = "config"
	defaultYAML   = "./config.yaml"
	alternateYAML = "./config.yml"
	configFileEnv = "L10N_CONFIGFILE"
)

// resolveConfigPath picks the YAML file to load: an explicit -config wins,
// then L10N_CONFIGFILE, then ./config.yaml or, if that is absent,
// ./config.yml.
//
// Binaries with flags of their own define them before calling LoadConfig.
func resolveConfigPath() string {
	f := flag.Lookup(configFlag)
	if f == nil {
		flag.String(configFlag, defaultYAML, "YAML configuration file.")

		f = flag.Lookup(configFlag)
	}

	if !flag.Parsed() {
		flag.Parse()
	}

	explicit := false

	flag.Visit(func(set *flag.Flag) {
		explicit = explicit || set.Name == configFlag
	})

	if explicit {
		return f.Value.String()
	}

	if path := os.Getenv(configFileEnv); path != "" {
		return path
	}

	if _, err := os.Stat(defaultYAML); os.IsNotExist(err) {
		if _, err := os.Stat(alternateYAML); err == nil {
			return alternateYAML
		}
	}

	return defaultYAML
}
