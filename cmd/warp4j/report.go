// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/warp4j/warp4j/internal/pipeline"
)

// reportFormat returns the report encoding chosen by the extension of path.
func reportFormat(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".toml":
		return "toml", nil
	case ".json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported report format %q (use .yaml, .toml or .json)", ext)
	}
}

// encodeReport serializes s in the format named by the extension of path.
func encodeReport(path string, s *pipeline.Summary) ([]byte, error) {
	format, err := reportFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case "yaml":
		return yaml.Marshal(s)
	case "toml":
		return toml.Marshal(s)
	default:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// writeReport writes the run summary to path.
func writeReport(path string, s *pipeline.Summary) error {
	data, err := encodeReport(path, s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
