// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package render

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LoadData reads the rendering data stored as YAML (or JSON) at path.
// An empty path yields no data.
func LoadData(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from the configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	return ParseData(raw)
}

// ParseData decodes YAML (or JSON) rendering data. The document must be a
// mapping.
func ParseData(raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data: %w", err)
	}

	return data, nil
}
