package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// WritableKeys are the settings `voltsight config set` accepts.
var WritableKeys = []string{
	"api.base_url",
	"api.timeout_seconds",
	"storage.backend",
	"storage.path",
	"ui.dark_mode",
	"ui.sidebar_open",
	"telemetry.total_dist_km",
	"telemetry.charging_time_min",
	"verbose",
}

// ConfigFilePath returns the file SetValue writes to: the one viper loaded,
// or ~/.voltsight.yaml when none was found.
func ConfigFilePath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigName+".yaml"), nil
}

// SetValue writes key=value into the YAML file at path, creating the file and
// intermediate mappings as needed. Existing comments and keys are preserved.
func SetValue(fs afero.Fs, path, key, value string) error {
	if !isWritable(key) {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(WritableKeys, ", "))
	}

	var doc yaml.Node
	data, err := afero.ReadFile(fs, path)
	switch {
	case err == nil && len(bytes.TrimSpace(data)) > 0:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case err != nil && !os.IsNotExist(err):
		return fmt.Errorf("read %s: %w", path, err)
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("%s: top level is not a mapping", path)
	}

	node := root
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		node = childMapping(node, part)
	}
	setScalar(node, parts[len(parts)-1], scalarFor(value))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return afero.WriteFile(fs, path, buf.Bytes(), 0600)
}

func isWritable(key string) bool {
	for _, k := range WritableKeys {
		if k == key {
			return true
		}
	}
	return false
}

func childMapping(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			child := m.Content[i+1]
			if child.Kind != yaml.MappingNode {
				*child = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			}
			return child
		}
	}
	child := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, child)
	return child
}

func setScalar(m *yaml.Node, key string, val *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			val.LineComment = m.Content[i+1].LineComment
			m.Content[i+1] = val
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, val)
}

// scalarFor types value the way a user would expect from the command line.
func scalarFor(value string) *yaml.Node {
	tag := "!!str"
	if _, err := strconv.ParseBool(value); err == nil && (value == "true" || value == "false") {
		tag = "!!bool"
	} else if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		tag = "!!int"
	} else if _, err := strconv.ParseFloat(value, 64); err == nil {
		tag = "!!float"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
