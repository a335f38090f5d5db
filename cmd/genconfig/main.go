// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
genconfig writes example configuration files from the configuration defaults.
*/
package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/mustache-l10n/mustache-l10n/config"
	"codeberg.org/mustache-l10n/mustache-l10n/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644

	envFileHeader = `# mustache-l10n configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.

`
	yamlFileHeader = `# mustache-l10n configuration (via configuration file)
#
# Copy this file to config.yaml and customize the values below.
#
# This file was auto-generated using go run ./cmd/genconfig.
`
)

// uncommented lists the variables most deployments set.
var uncommented = map[string]bool{
	"L10N_HOST":          true,
	"L10N_PORT":          true,
	"L10N_TEMPLATES_DIR": true,
	"L10N_CATALOG_DIR":   true,
}

func main() {
	audit.SetDefaultLogger()

	cfg := &config.Config{}
	cfg.SetDefaults()

	write(envOutputFile, envExample(cfg))

	content, err := yamlExample(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	write(yamlOutputFile, content)
}

func write(path, content string) {
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Generated example file")
}

// envExample lists every variable read from the environment, grouped by
// section, with its default value.
func envExample(cfg *config.Config) string {
	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	// Iterate over the top-level struct fields.
	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		var section strings.Builder

		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			tag, ok := innerTyp.Field(j).Tag.Lookup("env")
			if !ok {
				continue
			}

			writeEnvLine(&section, strings.Split(tag, ",")[0], structValue.Field(j))
		}

		if section.Len() == 0 {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n%s\n", structField.Name, section.String())
	}

	return sb.String()
}

func writeEnvLine(sb *strings.Builder, name string, value reflect.Value) {
	switch {
	case uncommented[name]:
		fmt.Fprintf(sb, "%s=\"%v\"\n", name, value.Interface())
	case value.Kind() == reflect.Slice:
		// caarlos0/env splits slices on commas.
		parts := make([]string, value.Len())
		for k := range value.Len() {
			parts[k] = fmt.Sprint(value.Index(k).Interface())
		}

		fmt.Fprintf(sb, "# %s=%s\n", name, strings.Join(parts, ","))
	case value.Kind() == reflect.String && value.Len() == 0:
		fmt.Fprintf(sb, "# %s=\n", name)
	default:
		fmt.Fprintf(sb, "# %s=%v\n", name, value.Interface())
	}
}

// yamlExample renders the defaults as a commented configuration file.
func yamlExample(cfg *config.Config) (string, error) {
	var yamlContent strings.Builder

	if err := yaml.NewEncoder(&yamlContent, yaml.Indent(2)).Encode(cfg); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	// Process the marshaled YAML line-by-line to create a clean template.
	for line := range strings.SplitSeq(yamlContent.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasSuffix(trimmed, "{}") {
			continue
		}

		// Top-level keys (e.g., "basic:") are treated as section headers.
		if !strings.HasPrefix(line, " ") {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		// By default, comment out the line.
		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String(), nil
}
