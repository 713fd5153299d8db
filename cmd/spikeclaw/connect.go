package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/danielvflores/lego-spike-claw/pkg/command"
	"github.com/danielvflores/lego-spike-claw/pkg/hub"
	"github.com/danielvflores/lego-spike-claw/pkg/teleop"
)

// ConnectOptions are shared by every command that talks to the hub.
type ConnectOptions struct {
	Config string `long:"config" description:"Configuration file path" value-name:"FILE"`
	Name   string `long:"name" description:"Connect to the hub with this name instead of the configured one" value-name:"NAME"`
}

func (o *ConnectOptions) configFile() string {
	if o.Config != "" {
		return o.Config
	}
	return teleop.DefaultConfigFile
}

// loadConfig reads the selected config file. With --name the file is
// optional and default speeds apply.
func (o *ConnectOptions) loadConfig() (*teleop.FileConfig, error) {
	cfg, err := teleop.LoadConfigFrom(o.configFile())
	if err != nil {
		if o.Name != "" {
			return &teleop.FileConfig{Speeds: command.DefaultSpeeds()}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// connectionConfig resolves which hub to connect to. A --name override
// wins over the saved selection; a saved address beats a saved name.
func connectionConfig(cfg *teleop.FileConfig, nameOverride string, timeout time.Duration) hub.Config {
	conn := hub.Config{ScanTimeout: timeout}
	if nameOverride != "" {
		conn.Name = nameOverride
		return conn
	}
	if cfg.Hub.Address != "" {
		conn.Address = cfg.Hub.Address
	} else {
		conn.Name = cfg.Hub.Name
	}
	return conn
}

// connect connects to the hub selected by `spikeclaw setup`, honoring
// the --config and --name flags. The loaded config is returned so
// callers can pick up the saved speeds.
func (o *ConnectOptions) connect(ctx context.Context, timeout time.Duration) (*hub.Hub, *teleop.FileConfig, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'spikeclaw setup' first.")
		os.Exit(1)
	}
	if o.Name == "" && !cfg.Hub.IsConfigured() {
		fmt.Fprintln(os.Stderr, "No hub configured. Run 'spikeclaw setup' first.")
		os.Exit(1)
	}

	conn := connectionConfig(cfg, o.Name, timeout)
	target := conn.Name
	if target == "" {
		target = conn.Address
	}
	fmt.Printf("Connecting to %s...\n", target)
	h, err := hub.Connect(ctx, conn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	fmt.Println(successStyle.Render("Connected."))
	return h, cfg, nil
}
