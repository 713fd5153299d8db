package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/danielvflores/lego-spike-claw/pkg/command"
	"github.com/danielvflores/lego-spike-claw/pkg/hub"
	"github.com/danielvflores/lego-spike-claw/pkg/teleop"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct {
	Config  string `long:"config" description:"Configuration file path" value-name:"FILE"`
	Timeout int    `long:"timeout" default:"15" description:"Scan duration in seconds"`
}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("spikeclaw Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━"))
	fmt.Println()
	fmt.Println("Scanning for Pybricks hubs...")

	type found struct {
		name    string
		address string
	}
	var hubs []found
	err := hub.Scan(time.Duration(c.Timeout)*time.Second, func(r hub.ScanResult) {
		name := r.Name
		if name == "" {
			name = r.Address
		}
		fmt.Printf("  found %s (%s, RSSI %d)\n", name, r.Address, r.RSSI)
		hubs = append(hubs, found{name: name, address: r.Address})
	})
	if err != nil {
		return err
	}

	if len(hubs) == 0 {
		fmt.Println()
		fmt.Println("No hubs found. Make sure the hub is on, running Pybricks")
		fmt.Println("firmware, and not connected to another device.")
		os.Exit(1)
	}

	options := make([]huh.Option[int], len(hubs))
	for i, h := range hubs {
		options[i] = huh.NewOption(fmt.Sprintf("%s (%s)", h.name, h.address), i)
	}

	var selected int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Which hub is the claw robot?").
			Options(options...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return err
	}

	cfg := &teleop.FileConfig{
		Hub: teleop.HubConfig{
			Name:    hubs[selected].name,
			Address: hubs[selected].address,
		},
		Speeds: command.DefaultSpeeds(),
	}
	path := c.Config
	if path == "" {
		path = teleop.DefaultConfigFile
	}
	if err := cfg.SaveTo(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", path)
	fmt.Println()
	fmt.Println("Push the hub program with:  " + headerStyle.Render("spikeclaw install"))
	fmt.Println("Start teleoperation with:   " + headerStyle.Render("spikeclaw teleoperate"))

	return nil
}
