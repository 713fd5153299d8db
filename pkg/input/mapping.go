// Package input translates gamepad events into the key names the
// teleoperation controller understands.
package input

import "github.com/danielvflores/lego-spike-claw/pkg/command"

// Sink receives translated gamepad input. *teleop.Controller satisfies
// this interface.
type Sink interface {
	SetKey(key string, down bool)
	SetPerpetualDrive(cmd command.DriveCommand)
	SetPerpetualClaw(cmd command.ClawCommand)
	ClearPerpetual()
}

// Linux input event codes for a PS-style gamepad.
const (
	absStickX   = 0  // ABS_X, left stick horizontal
	absStickY   = 1  // ABS_Y, left stick vertical (up is negative)
	absTriggerL = 2  // ABS_Z, L2
	absRStickX  = 3  // ABS_RX, right stick horizontal
	absRStickY  = 4  // ABS_RY, right stick vertical
	absTriggerR = 5  // ABS_RZ, R2
	absHatX     = 16 // ABS_HAT0X, d-pad horizontal
	absHatY     = 17 // ABS_HAT0Y, d-pad vertical

	btnSouth     = 304 // cross
	btnEast      = 305 // circle
	btnNorth     = 307 // triangle
	btnWest      = 308 // square
	btnShoulder  = 310 // L1
	btnShoulderR = 311 // R1
	btnStart     = 315
)

// Mapping holds tunables for axis translation.
type Mapping struct {
	// Deadzone is the stick magnitude below which no key is held.
	Deadzone int32
	// TriggerThreshold is the analog trigger value that counts as
	// pressed.
	TriggerThreshold int32
}

// DefaultMapping returns the standard mapping.
func DefaultMapping() Mapping {
	return Mapping{
		Deadzone:         8000,
		TriggerThreshold: 100,
	}
}

// translator tracks which synthetic keys the gamepad currently holds and
// forwards only the edges to the sink.
type translator struct {
	mapping Mapping
	sink    Sink
	held    map[string]bool

	rstickX int32
	rstickY int32
	perp    command.DriveCommand
}

func newTranslator(m Mapping, sink Sink) *translator {
	return &translator{
		mapping: m,
		sink:    sink,
		held:    make(map[string]bool),
	}
}

func (t *translator) set(key string, down bool) {
	if t.held[key] == down {
		return
	}
	t.held[key] = down
	t.sink.SetKey(key, down)
}

// absolute handles an axis event. The left stick maps to WASD, the
// d-pad to the slow IJKL keys, and the triggers to claw close/open.
func (t *translator) absolute(code uint16, value int32) {
	m := t.mapping
	switch code {
	case absStickX:
		t.set("a", value < -m.Deadzone)
		t.set("d", value > m.Deadzone)
	case absStickY:
		t.set("w", value < -m.Deadzone)
		t.set("s", value > m.Deadzone)
	case absHatX:
		t.set("j", value < 0)
		t.set("l", value > 0)
	case absHatY:
		t.set("i", value < 0)
		t.set("k", value > 0)
	case absTriggerL:
		t.set("space", value > m.TriggerThreshold)
	case absTriggerR:
		t.set("g", value > m.TriggerThreshold)
	case absRStickX:
		t.rstickX = value
		t.updatePerpetualDrive()
	case absRStickY:
		t.rstickY = value
		t.updatePerpetualDrive()
	}
}

// updatePerpetualDrive maps the right stick to perpetual drive mode:
// deflecting it locks in a direction, and the lock survives re-centering
// the stick. Only triangle clears it. The dominant axis wins.
func (t *translator) updatePerpetualDrive() {
	dz := t.mapping.Deadzone
	x, y := t.rstickX, t.rstickY
	if abs32(x) <= dz && abs32(y) <= dz {
		return
	}

	var cmd command.DriveCommand
	switch {
	case abs32(y) >= abs32(x):
		if y < 0 {
			cmd = command.DriveForward
		} else {
			cmd = command.DriveBackward
		}
	case x < 0:
		cmd = command.DriveLeft
	default:
		cmd = command.DriveRight
	}

	if cmd != t.perp {
		t.perp = cmd
		t.sink.SetPerpetualDrive(cmd)
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// key handles a button event. Shoulders are the slow claw keys; the
// face buttons control perpetual claw mode, as on the desktop UI of the
// original robot: square closes, circle opens, triangle clears, start
// forces a claw stop.
func (t *translator) key(code uint16, down bool) {
	switch code {
	case btnShoulder:
		t.set("m", down)
	case btnShoulderR:
		t.set("n", down)
	case btnWest:
		if down {
			t.sink.SetPerpetualClaw(command.ClawClose)
		}
	case btnEast:
		if down {
			t.sink.SetPerpetualClaw(command.ClawOpen)
		}
	case btnNorth:
		if down {
			t.perp = ""
			t.sink.ClearPerpetual()
		}
	case btnStart:
		if down {
			t.sink.SetPerpetualClaw(command.ClawStop)
		}
	}
}

// releaseAll lifts every key the gamepad holds, used on shutdown.
func (t *translator) releaseAll() {
	for key, down := range t.held {
		if down {
			t.held[key] = false
			t.sink.SetKey(key, false)
		}
	}
}
