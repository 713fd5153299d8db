// Package teleop provides the teleoperation control loop for the claw
// robot.
package teleop

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/danielvflores/lego-spike-claw/pkg/command"
)

// Hub is the hub connection the controller writes commands to.
type Hub interface {
	WriteLine(ctx context.Context, line string) error
}

// State represents the current state of teleoperation.
type State struct {
	Command   command.State
	Pressed   []string
	Speeds    map[command.Motor]int
	Perpetual bool
	Timestamp time.Time
	Error     error
}

// Config holds configuration for the controller.
type Config struct {
	Hub    Hub
	Speeds command.Speeds

	// Cooldown is the minimum gap between command sends to the hub.
	Cooldown time.Duration
	// HoldThreshold promotes a short press to continuous movement.
	HoldThreshold time.Duration
	// Tick is the refresh interval for held and perpetual commands.
	Tick time.Duration
	// TapRelease is how long a keyboard tap counts as held. Terminal
	// key repeat refreshes the deadline, so a held key stays pressed.
	TapRelease time.Duration
}

// Controller turns key events into motor commands and streams them to
// the hub, suppressing redundant sends.
type Controller struct {
	hub        Hub
	speeds     command.Speeds
	cooldown   time.Duration
	hold       time.Duration
	tick       time.Duration
	tapRelease time.Duration

	mu          sync.Mutex
	pressed     map[string]time.Time
	tapDeadline map[string]time.Time
	perpDrive   command.DriveCommand // "" when inactive
	perpClaw    command.ClawCommand  // "" when inactive
	last        command.State
	lastSent    time.Time
	running     bool

	wake    chan struct{}
	stateCh chan State
	logCh   chan string
}

// NewController creates a new teleoperation controller.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Hub == nil {
		return nil, fmt.Errorf("no hub configured")
	}
	if cfg.Speeds == (command.Speeds{}) {
		cfg.Speeds = command.DefaultSpeeds()
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 100 * time.Millisecond
	}
	if cfg.HoldThreshold <= 0 {
		cfg.HoldThreshold = 200 * time.Millisecond
	}
	if cfg.Tick <= 0 {
		cfg.Tick = 250 * time.Millisecond
	}
	if cfg.TapRelease <= 0 {
		cfg.TapRelease = 300 * time.Millisecond
	}

	return &Controller{
		hub:         cfg.Hub,
		speeds:      cfg.Speeds,
		cooldown:    cfg.Cooldown,
		hold:        cfg.HoldThreshold,
		tick:        cfg.Tick,
		tapRelease:  cfg.TapRelease,
		pressed:     make(map[string]time.Time),
		tapDeadline: make(map[string]time.Time),
		last:        command.StopState,
		wake:        make(chan struct{}, 1),
		stateCh:     make(chan State, 1),
		logCh:       make(chan string, 10),
	}, nil
}

// States returns a channel that receives state updates.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// Speeds returns the active speed table.
func (c *Controller) Speeds() command.Speeds {
	return c.speeds
}

func (c *Controller) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Tap registers a keyboard key press. The key counts as held until the
// tap deadline passes; repeated taps (terminal auto-repeat) extend it.
func (c *Controller) Tap(key string) {
	now := time.Now()
	c.mu.Lock()
	if _, held := c.pressed[key]; !held {
		c.pressed[key] = now
	}
	c.tapDeadline[key] = now.Add(c.tapRelease)
	c.mu.Unlock()
	c.notify()
}

// SetKey registers a key press or release from an input device that
// reports both edges, such as a gamepad.
func (c *Controller) SetKey(key string, down bool) {
	c.mu.Lock()
	if down {
		if _, held := c.pressed[key]; !held {
			c.pressed[key] = time.Now()
		}
		delete(c.tapDeadline, key)
	} else {
		delete(c.pressed, key)
		delete(c.tapDeadline, key)
	}
	c.mu.Unlock()
	c.notify()
}

// SetPerpetualDrive forces a drive command until cleared. An empty
// command releases just the drive override.
func (c *Controller) SetPerpetualDrive(cmd command.DriveCommand) {
	c.mu.Lock()
	c.perpDrive = cmd
	c.mu.Unlock()
	if cmd == "" {
		c.log("Perpetual drive cleared")
	} else {
		c.log("Perpetual drive: %s", cmd)
	}
	c.notify()
}

// SetPerpetualClaw forces a claw command until ClearPerpetual.
func (c *Controller) SetPerpetualClaw(cmd command.ClawCommand) {
	c.mu.Lock()
	c.perpClaw = cmd
	c.mu.Unlock()
	c.log("Perpetual claw: %s", cmd)
	c.notify()
}

// ClearPerpetual drops any perpetual overrides.
func (c *Controller) ClearPerpetual() {
	c.mu.Lock()
	active := c.perpDrive != "" || c.perpClaw != ""
	c.perpDrive = ""
	c.perpClaw = ""
	c.mu.Unlock()
	if active {
		c.log("Perpetual mode cleared")
	}
	c.notify()
}

func (c *Controller) notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Start begins the control loop. It blocks until the context is done.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	c.log("Teleoperation started")

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return ctx.Err()
		case <-ticker.C:
			c.step(ctx, true)
		case <-c.wake:
			c.step(ctx, false)
		}
	}
}

// snapshot resolves the current command pair under the lock.
func (c *Controller) snapshot(now time.Time) (cur command.State, pressed []string, perp, heldLong bool, lastSent time.Time, changed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, deadline := range c.tapDeadline {
		if now.After(deadline) {
			delete(c.tapDeadline, key)
			delete(c.pressed, key)
		}
	}

	keys := make(command.KeySet, len(c.pressed))
	for key, since := range c.pressed {
		keys[key] = true
		pressed = append(pressed, key)
		if now.Sub(since) >= c.hold {
			heldLong = true
		}
	}
	sort.Strings(pressed)

	cur = command.Resolve(keys)
	if c.perpDrive != "" {
		cur.Drive = c.perpDrive
	}
	if c.perpClaw != "" {
		cur.Claw = c.perpClaw
	}
	perp = c.perpDrive != "" || c.perpClaw != ""
	lastSent = c.lastSent
	changed = cur != c.last
	return
}

func (c *Controller) step(ctx context.Context, tick bool) {
	now := time.Now()
	cur, pressed, perp, heldLong, lastSent, changed := c.snapshot(now)

	// Held keys and perpetual overrides are re-asserted on the tick so
	// the hub keeps moving; everything else only goes out on change.
	force := tick && (perp || (heldLong && cur != command.StopState))
	if !changed && !force {
		c.sendState(cur, pressed, perp, nil)
		return
	}

	if wait := c.cooldown - now.Sub(lastSent); wait > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}

	for _, line := range command.Lines(cur, c.speeds) {
		if err := c.hub.WriteLine(ctx, line); err != nil {
			c.log("Send error: %v", err)
			c.sendState(cur, pressed, perp, err)
			return
		}
	}

	c.mu.Lock()
	c.last = cur
	c.lastSent = time.Now()
	c.mu.Unlock()

	if changed {
		c.log("Sent drive=%s claw=%s", cur.Drive, cur.Claw)
	}
	c.sendState(cur, pressed, perp, nil)
}

func (c *Controller) sendState(cur command.State, pressed []string, perp bool, err error) {
	s := State{
		Command:   cur,
		Pressed:   pressed,
		Speeds:    command.MotorSpeeds(cur, c.speeds),
		Perpetual: perp,
		Timestamp: time.Now(),
		Error:     err,
	}
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}

func (c *Controller) shutdown() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()

	ctx := context.Background()
	for _, line := range command.Lines(command.StopState, c.speeds) {
		if err := c.hub.WriteLine(ctx, line); err != nil {
			c.log("Stop error: %v", err)
			c.log("Teleoperation stopped")
			return
		}
	}
	// Tell the dispatcher to finish so the hub program exits cleanly.
	if err := c.hub.WriteLine(ctx, "exit"); err != nil {
		c.log("Exit error: %v", err)
	}
	c.log("Teleoperation stopped")
}
