//go:build !linux

package input

import (
	"context"
	"errors"
)

// ErrUnsupported is returned on platforms without evdev.
var ErrUnsupported = errors.New("gamepad input is only supported on Linux")

// Gamepad is a placeholder on platforms without evdev.
type Gamepad struct{}

// Open always fails on this platform.
func Open(path string, mapping Mapping, sink Sink) (*Gamepad, error) {
	return nil, ErrUnsupported
}

// Name returns an empty string.
func (g *Gamepad) Name() string { return "" }

// Run always fails on this platform.
func (g *Gamepad) Run(ctx context.Context) error { return ErrUnsupported }

// Close is a no-op.
func (g *Gamepad) Close() error { return nil }
