package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/danielvflores/lego-spike-claw/pkg/hub"
)

type InstallCommand struct {
	ConnectOptions
	Emit    string `long:"emit" description:"Write the dispatcher source to FILE instead of pushing it (for manual install via Pybricks Code)" value-name:"FILE"`
	Timeout int    `long:"timeout" default:"30" description:"Scan timeout in seconds"`
}

func (c *InstallCommand) Execute(args []string) error {
	if c.Emit != "" {
		if err := os.WriteFile(c.Emit, []byte(hub.DispatcherProgram), 0644); err != nil {
			return fmt.Errorf("write dispatcher source: %w", err)
		}
		fmt.Printf("Dispatcher source written to %s\n", c.Emit)
		return nil
	}

	ctx := context.Background()

	fmt.Println("Compiling dispatcher program...")
	mpy, err := hub.Compile(ctx, hub.DispatcherProgram)
	if err != nil {
		if errors.Is(err, hub.ErrMpyCrossNotFound) {
			fmt.Fprintln(os.Stderr, "mpy-cross is required to compile hub programs.")
			fmt.Fprintln(os.Stderr, "Install it (pip install mpy-cross-v6) or use --emit to")
			fmt.Fprintln(os.Stderr, "export the source and load it with Pybricks Code.")
			os.Exit(1)
		}
		return err
	}
	fmt.Printf("Compiled: %d bytes\n", len(mpy))

	h, _, err := c.connect(ctx, time.Duration(c.Timeout)*time.Second)
	if err != nil {
		return err
	}
	defer h.Close()

	fmt.Println("Pushing program to hub...")
	if err := h.Run(ctx, mpy); err != nil {
		return fmt.Errorf("push program: %w", err)
	}

	fmt.Println(successStyle.Render("Dispatcher installed and running."))
	fmt.Println("Start teleoperation with: " + headerStyle.Render("spikeclaw teleoperate"))
	return nil
}
