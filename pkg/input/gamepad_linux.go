//go:build linux

package input

import (
	"context"
	"fmt"

	"github.com/kenshaw/evdev"
)

// Gamepad reads a Linux evdev gamepad device and feeds translated keys
// to a Sink.
type Gamepad struct {
	dev *evdev.Evdev
	tr  *translator
}

// Open opens an evdev device (such as /dev/input/event5) as a gamepad.
func Open(path string, mapping Mapping, sink Sink) (*Gamepad, error) {
	dev, err := evdev.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open gamepad %s: %w", path, err)
	}
	return &Gamepad{
		dev: dev,
		tr:  newTranslator(mapping, sink),
	}, nil
}

// Name returns the device name reported by the kernel.
func (g *Gamepad) Name() string {
	return g.dev.Name()
}

// Run reads events until the context is done or the device goes away.
// All held keys are released before returning.
func (g *Gamepad) Run(ctx context.Context) error {
	defer g.tr.releaseAll()

	ch := g.dev.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return fmt.Errorf("gamepad disconnected")
			}
			if ev == nil {
				continue
			}
			switch ev.Event.Type {
			case evdev.EventAbsolute:
				g.tr.absolute(ev.Event.Code, ev.Event.Value)
			case evdev.EventKey:
				g.tr.key(ev.Event.Code, ev.Event.Value != 0)
			}
		}
	}
}

// Close releases the device.
func (g *Gamepad) Close() error {
	g.dev.Close()
	return nil
}
