package teleop

import (
	"encoding/json"
	"os"

	"github.com/danielvflores/lego-spike-claw/pkg/command"
)

const DefaultConfigFile = "spikeclaw.json"

// FileConfig is the saved configuration written by `spikeclaw setup`.
type FileConfig struct {
	Hub    HubConfig      `json:"hub"`
	Speeds command.Speeds `json:"speeds"`
}

// HubConfig identifies the hub to connect to.
type HubConfig struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// IsConfigured returns true if a hub has been selected.
func (h *HubConfig) IsConfigured() bool {
	return h.Name != "" || h.Address != ""
}

// LoadConfig loads configuration from the default config file.
func LoadConfig() (*FileConfig, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file.
func LoadConfigFrom(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if cfg.Speeds == (command.Speeds{}) {
		cfg.Speeds = command.DefaultSpeeds()
	}
	return &cfg, nil
}

// Save saves configuration to the default config file.
func (c *FileConfig) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file.
func (c *FileConfig) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigExists returns true if the default config file exists.
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
