package main

import (
	"fmt"
	"time"

	"github.com/danielvflores/lego-spike-claw/pkg/hub"
)

type ScanCommand struct {
	Timeout int `long:"timeout" default:"10" description:"Scan duration in seconds"`
}

func (c *ScanCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("Scanning for Pybricks hubs..."))
	fmt.Println(dimStyle.Render("Make sure the hub is on and not connected elsewhere."))
	fmt.Println()
	fmt.Printf("%-20s %-20s %s\n", "NAME", "ADDRESS", "RSSI")

	count := 0
	err := hub.Scan(time.Duration(c.Timeout)*time.Second, func(r hub.ScanResult) {
		count++
		name := r.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%-20s %-20s %d\n", name, r.Address, r.RSSI)
	})
	if err != nil {
		return err
	}

	fmt.Println()
	if count == 0 {
		fmt.Println("No hubs found.")
	} else {
		fmt.Printf("Found %d hub(s).\n", count)
	}
	return nil
}
