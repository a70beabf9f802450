// Package config provides configuration loading for the extraction node
// table.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conexia/flowlens/pkg/extractor"
)

// ExtractorConfigFile represents the structure of the extractor.yaml file.
// Unset node names fall back to the defaults of the monitored workflow.
type ExtractorConfigFile struct {
	ChatNode   string `yaml:"chat_node"`
	AgentNode  string `yaml:"agent_node"`
	GPTNode    string `yaml:"gpt_node"`
	ClaudeNode string `yaml:"claude_node"`
	LeadNode   string `yaml:"lead_node"`
}

// LoadExtractorConfig loads the extractor node table from a YAML file.
func LoadExtractorConfig(filepath string) (extractor.Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return extractor.Config{}, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var configFile ExtractorConfigFile
	if err := yaml.Unmarshal(data, &configFile); err != nil {
		return extractor.Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	config := extractor.DefaultConfig()

	if configFile.ChatNode != "" {
		config.ChatNode = configFile.ChatNode
	}

	if configFile.AgentNode != "" {
		config.AgentNode = configFile.AgentNode
	}

	if configFile.GPTNode != "" {
		config.GPTNode = configFile.GPTNode
	}

	if configFile.ClaudeNode != "" {
		config.ClaudeNode = configFile.ClaudeNode
	}

	if configFile.LeadNode != "" {
		config.LeadNode = configFile.LeadNode
	}

	return config, nil
}

// LoadExtractorConfigOrDefault attempts to load the extractor config from
// file, falling back to the default node table when the file is absent or
// unreadable.
func LoadExtractorConfigOrDefault(filepath string) extractor.Config {
	if filepath == "" {
		return extractor.DefaultConfig()
	}

	config, err := LoadExtractorConfig(filepath)
	if err != nil {
		return extractor.DefaultConfig()
	}

	return config
}
