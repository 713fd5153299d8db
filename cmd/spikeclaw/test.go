package main

import (
	"context"
	"fmt"
	"time"

	"github.com/danielvflores/lego-spike-claw/pkg/hub"
)

type TestCommand struct {
	ConnectOptions
	Timeout int `long:"timeout" default:"30" description:"Scan timeout in seconds"`
}

func (c *TestCommand) Execute(args []string) error {
	ctx := context.Background()

	fmt.Println("Compiling self-test program...")
	mpy, err := hub.Compile(ctx, hub.SelfTestProgram)
	if err != nil {
		return err
	}

	h, _, err := c.connect(ctx, time.Duration(c.Timeout)*time.Second)
	if err != nil {
		return err
	}
	defer h.Close()

	fmt.Println("Running motor self-test (watch the robot)...")
	if err := h.Run(ctx, mpy); err != nil {
		return fmt.Errorf("run self-test: %w", err)
	}

	// Echo hub output until the program finishes.
	deadline := time.After(30 * time.Second)
	started := false
	for {
		select {
		case line := <-h.Stdout():
			fmt.Println("  " + dimStyle.Render(line))
		case running := <-h.Status():
			if running {
				started = true
			} else if started {
				fmt.Println(successStyle.Render("Self-test finished."))
				return nil
			}
		case <-deadline:
			fmt.Println("Self-test timed out waiting for the hub.")
			return nil
		}
	}
}
