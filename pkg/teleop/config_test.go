package teleop

import (
	"path/filepath"
	"testing"

	"github.com/danielvflores/lego-spike-claw/pkg/command"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spikeclaw.json")

	cfg := &FileConfig{
		Hub: HubConfig{
			Name:    "Pybricks Hub",
			Address: "90:84:2B:50:36:43",
		},
		Speeds: command.Speeds{Drive: 400, Slow: 80, Diagonal: 250, Claw: 200, ClawSlow: 100},
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if loaded.Hub != cfg.Hub {
		t.Errorf("Hub = %+v, want %+v", loaded.Hub, cfg.Hub)
	}
	if loaded.Speeds != cfg.Speeds {
		t.Errorf("Speeds = %+v, want %+v", loaded.Speeds, cfg.Speeds)
	}
}

func TestConfigDefaultSpeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spikeclaw.json")

	cfg := &FileConfig{Hub: HubConfig{Name: "Pybricks Hub"}}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if loaded.Speeds != command.DefaultSpeeds() {
		t.Errorf("Speeds = %+v, want defaults", loaded.Speeds)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHubConfigIsConfigured(t *testing.T) {
	tests := []struct {
		cfg      HubConfig
		expected bool
	}{
		{HubConfig{}, false},
		{HubConfig{Name: "Pybricks Hub"}, true},
		{HubConfig{Address: "90:84:2B:50:36:43"}, true},
	}
	for _, tt := range tests {
		if got := tt.cfg.IsConfigured(); got != tt.expected {
			t.Errorf("IsConfigured(%+v) = %t, want %t", tt.cfg, got, tt.expected)
		}
	}
}
