// Package hub implements a BLE client for LEGO hubs running Pybricks
// firmware: scanning, connecting, streaming stdin lines to a running
// program, and downloading compiled programs to the hub.
package hub

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"
)

// Config holds connection settings for a hub.
type Config struct {
	Name        string // optional: match the advertised hub name
	Address     string // optional: match the BLE address
	ScanTimeout time.Duration
	Retries     int // connection attempts, default 3
}

// ScanResult describes a hub seen during a scan.
type ScanResult struct {
	Name    string
	Address string
	RSSI    int16
}

// Hub is a connection to a Pybricks hub.
type Hub struct {
	adapter *bluetooth.Adapter
	device  bluetooth.Device
	cmd     bluetooth.DeviceCharacteristic
	caps    Capabilities

	mu        sync.Mutex
	connected bool
	running   bool // user program running, from status reports
	lineBuf   strings.Builder

	stdoutCh chan string
	statusCh chan bool
}

// Scan reports every Pybricks hub seen within the timeout. Each hub is
// reported once.
func Scan(timeout time.Duration, found func(ScanResult)) error {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return fmt.Errorf("enable BLE adapter: %w", err)
	}

	seen := make(map[string]bool)
	timer := time.AfterFunc(timeout, func() {
		adapter.StopScan()
	})
	defer timer.Stop()

	err := adapter.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
		if !result.HasServiceUUID(ServiceUUID) {
			return
		}
		addr := result.Address.String()
		if seen[addr] {
			return
		}
		seen[addr] = true
		found(ScanResult{
			Name:    result.LocalName(),
			Address: addr,
			RSSI:    result.RSSI,
		})
	})
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}

// Connect scans for a matching hub and connects to it, retrying the
// whole sequence on failure.
func Connect(ctx context.Context, cfg Config) (*Hub, error) {
	if cfg.ScanTimeout <= 0 {
		cfg.ScanTimeout = 30 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}

	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable BLE adapter: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < cfg.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
			}
		}

		h, err := connectOnce(adapter, cfg)
		if err == nil {
			return h, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("connect after %d attempts: %w", cfg.Retries, lastErr)
}

func connectOnce(adapter *bluetooth.Adapter, cfg Config) (*Hub, error) {
	result, err := find(adapter, cfg)
	if err != nil {
		return nil, err
	}

	device, err := adapter.Connect(result.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", result.Address.String(), err)
	}

	h := &Hub{
		adapter:  adapter,
		device:   device,
		caps:     defaultCapabilities,
		stdoutCh: make(chan string, 32),
		statusCh: make(chan bool, 1),
	}
	if err := h.discover(); err != nil {
		device.Disconnect()
		return nil, err
	}
	h.connected = true
	return h, nil
}

// find scans until a hub matching the config is seen or the timeout
// expires.
func find(adapter *bluetooth.Adapter, cfg Config) (bluetooth.ScanResult, error) {
	var (
		match bluetooth.ScanResult
		ok    bool
	)
	timer := time.AfterFunc(cfg.ScanTimeout, func() {
		adapter.StopScan()
	})
	defer timer.Stop()

	err := adapter.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
		if !result.HasServiceUUID(ServiceUUID) {
			return
		}
		if cfg.Address != "" && result.Address.String() != cfg.Address {
			return
		}
		if cfg.Name != "" && result.LocalName() != cfg.Name {
			return
		}
		match = result
		ok = true
		a.StopScan()
	})
	if err != nil {
		return match, fmt.Errorf("scan: %w", err)
	}
	if !ok {
		return match, ErrNoHub
	}
	return match, nil
}

func (h *Hub) discover() error {
	services, err := h.device.DiscoverServices([]bluetooth.UUID{ServiceUUID})
	if err != nil {
		return fmt.Errorf("discover Pybricks service: %w", err)
	}
	if len(services) == 0 {
		return fmt.Errorf("hub does not expose the Pybricks service")
	}

	chars, err := services[0].DiscoverCharacteristics([]bluetooth.UUID{CommandEventUUID, CapabilitiesUUID})
	if err != nil {
		return fmt.Errorf("discover characteristics: %w", err)
	}
	foundCmd := false
	for _, c := range chars {
		switch c.UUID() {
		case CommandEventUUID:
			h.cmd = c
			foundCmd = true
		case CapabilitiesUUID:
			buf := make([]byte, 16)
			n, err := c.Read(buf)
			if err == nil {
				if caps, perr := parseCapabilities(buf[:n]); perr == nil {
					h.caps = caps
				}
			}
		}
	}
	if !foundCmd {
		return fmt.Errorf("hub missing command characteristic")
	}

	if err := h.cmd.EnableNotifications(h.handleEvent); err != nil {
		return fmt.Errorf("enable notifications: %w", err)
	}
	return nil
}

func (h *Hub) handleEvent(buf []byte) {
	if len(buf) == 0 {
		return
	}
	switch buf[0] {
	case eventStatusReport:
		if len(buf) < 5 {
			return
		}
		flags := uint32(buf[1]) | uint32(buf[2])<<8 | uint32(buf[3])<<16 | uint32(buf[4])<<24
		running := flags&statusUserProgramRunning != 0
		h.mu.Lock()
		changed := running != h.running
		h.running = running
		h.mu.Unlock()
		if changed {
			select {
			case h.statusCh <- running:
			default:
			}
		}
	case eventWriteStdout:
		h.appendStdout(buf[1:])
	}
}

// appendStdout buffers stdout bytes and emits complete lines.
func (h *Hub) appendStdout(b []byte) {
	h.mu.Lock()
	h.lineBuf.Write(b)
	text := h.lineBuf.String()
	var lines []string
	for {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, strings.TrimRight(text[:i], "\r"))
		text = text[i+1:]
	}
	h.lineBuf.Reset()
	h.lineBuf.WriteString(text)
	h.mu.Unlock()

	for _, line := range lines {
		select {
		case h.stdoutCh <- line:
		default:
			// drop when the consumer lags
		}
	}
}

// Stdout returns a channel of complete output lines printed by the hub
// program.
func (h *Hub) Stdout() <-chan string {
	return h.stdoutCh
}

// Status returns a channel that signals user-program running changes.
func (h *Hub) Status() <-chan bool {
	return h.statusCh
}

// ProgramRunning reports whether the hub's user program is running, per
// the latest status report.
func (h *Hub) ProgramRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Capabilities returns the hub's reported capabilities.
func (h *Hub) Capabilities() Capabilities {
	return h.caps
}

// Address returns the BLE address of the connected hub.
func (h *Hub) Address() string {
	return h.device.Address.String()
}

func (h *Hub) write(frame []byte) error {
	h.mu.Lock()
	ok := h.connected
	h.mu.Unlock()
	if !ok {
		return ErrNotConnected
	}
	if _, err := h.cmd.WriteWithoutResponse(frame); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

// WriteLine sends one line to the running program's stdin. Long lines
// are split across writes to respect the hub's maximum write size.
func (h *Hub) WriteLine(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, chunk := range stdinChunks([]byte(line+"\n"), h.caps.MaxWriteSize) {
		if err := h.write(stdinFrame(chunk)); err != nil {
			return err
		}
	}
	return nil
}

// StartProgram starts the user program stored on the hub.
func (h *Hub) StartProgram(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return h.write([]byte{cmdStartUserProgram})
}

// StopProgram stops the running user program, if any.
func (h *Hub) StopProgram(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return h.write([]byte{cmdStopUserProgram})
}

// Download writes a compiled .mpy program into the hub's user program
// slot. The stored program is invalidated first and validated only once
// all chunks are written.
func (h *Hub) Download(ctx context.Context, mpy []byte) error {
	if h.caps.MaxProgramSize > 0 && len(mpy) > h.caps.MaxProgramSize {
		return fmt.Errorf("%w: %d > %d bytes", ErrProgramTooLarge, len(mpy), h.caps.MaxProgramSize)
	}
	if err := h.write(metaFrame(0)); err != nil {
		return fmt.Errorf("invalidate program: %w", err)
	}

	offset := uint32(0)
	for _, chunk := range programChunks(mpy, h.caps.MaxWriteSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.write(ramFrame(offset, chunk)); err != nil {
			return fmt.Errorf("write program chunk at %d: %w", offset, err)
		}
		offset += uint32(len(chunk))
	}

	if err := h.write(metaFrame(uint32(len(mpy)))); err != nil {
		return fmt.Errorf("finalize program: %w", err)
	}
	return nil
}

// Run stops any running program, downloads the given .mpy and starts it.
func (h *Hub) Run(ctx context.Context, mpy []byte) error {
	if err := h.StopProgram(ctx); err != nil {
		return err
	}
	if err := h.Download(ctx, mpy); err != nil {
		return err
	}
	return h.StartProgram(ctx)
}

// Close disconnects from the hub.
func (h *Hub) Close() error {
	h.mu.Lock()
	if !h.connected {
		h.mu.Unlock()
		return nil
	}
	h.connected = false
	h.mu.Unlock()
	return h.device.Disconnect()
}
