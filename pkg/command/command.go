package command

import "strings"

// DriveCommand is a resolved movement command for the two drive motors.
type DriveCommand string

// Drive commands. Diagonals run both axes; slow variants run a single
// axis at reduced speed.
const (
	DriveStop          DriveCommand = "stop"
	DriveForward       DriveCommand = "forward"
	DriveBackward      DriveCommand = "backward"
	DriveLeft          DriveCommand = "left"
	DriveRight         DriveCommand = "right"
	DriveLeftForward   DriveCommand = "left_forward"
	DriveRightForward  DriveCommand = "right_forward"
	DriveLeftBackward  DriveCommand = "left_backward"
	DriveRightBackward DriveCommand = "right_backward"
	DriveForwardSlow   DriveCommand = "forward_slow"
	DriveBackwardSlow  DriveCommand = "backward_slow"
	DriveLeftSlow      DriveCommand = "left_slow"
	DriveRightSlow     DriveCommand = "right_slow"
)

// ClawCommand is a resolved command for the claw motor.
type ClawCommand string

// Claw commands.
const (
	ClawStop      ClawCommand = "stop"
	ClawClose     ClawCommand = "close"
	ClawOpen      ClawCommand = "open"
	ClawCloseSlow ClawCommand = "close_slow"
	ClawOpenSlow  ClawCommand = "open_slow"
)

// State is a drive/claw command pair, used as the last-sent cache so
// redundant sends to the hub can be suppressed.
type State struct {
	Drive DriveCommand
	Claw  ClawCommand
}

// StopState is the all-stop command pair.
var StopState = State{Drive: DriveStop, Claw: ClawStop}

// KeySet holds the names of currently held keys.
type KeySet map[string]bool

// Has reports whether the named key is held.
func (k KeySet) Has(name string) bool { return k[name] }

// keyAliases maps alternate input names to canonical key names.
var keyAliases = map[string]string{
	" ":        "space",
	"spacebar": "space",
	"up":       "w",
	"down":     "s",
	"left":     "a",
	"right":    "d",
}

// NormalizeKey maps an input key name to its canonical form: lowercase,
// arrows folded onto WASD, space variants folded onto "space".
func NormalizeKey(name string) string {
	name = strings.ToLower(name)
	if alias, ok := keyAliases[name]; ok {
		return alias
	}
	return name
}

// controlKeys are the keys that affect motor commands.
var controlKeys = map[string]bool{
	"w": true, "a": true, "s": true, "d": true,
	"i": true, "j": true, "k": true, "l": true,
	"space": true, "g": true, "m": true, "n": true, "r": true,
}

// IsControlKey reports whether a canonical key name drives a motor.
func IsControlKey(name string) bool { return controlKeys[name] }

// ResolveDrive determines the drive command for a set of held keys.
// Slow keys (IJKL) take priority over the fast WASD keys. Opposite keys
// cancel each other. Fast diagonals combine the vertical direction with
// a scaled horizontal run.
func ResolveDrive(keys KeySet) DriveCommand {
	switch {
	case keys.Has("i"):
		return DriveForwardSlow
	case keys.Has("k"):
		return DriveBackwardSlow
	case keys.Has("j"):
		return DriveLeftSlow
	case keys.Has("l"):
		return DriveRightSlow
	}

	w := keys.Has("w")
	s := keys.Has("s")
	a := keys.Has("a")
	d := keys.Has("d")

	if w && !s {
		if a && !d {
			return DriveLeftForward
		}
		if d && !a {
			return DriveRightForward
		}
		return DriveForward
	}
	if s && !w {
		if a && !d {
			return DriveLeftBackward
		}
		if d && !a {
			return DriveRightBackward
		}
		return DriveBackward
	}
	if a && !d {
		return DriveLeft
	}
	if d && !a {
		return DriveRight
	}
	return DriveStop
}

// ResolveClaw determines the claw command for a set of held keys.
// R forces a stop. Space closes, G opens; holding both cancels to stop.
// M/N are the slow close/open variants.
func ResolveClaw(keys KeySet) ClawCommand {
	if keys.Has("r") {
		return ClawStop
	}
	space := keys.Has("space")
	g := keys.Has("g")
	switch {
	case space && !g:
		return ClawClose
	case g && !space:
		return ClawOpen
	case keys.Has("m") && !keys.Has("n"):
		return ClawCloseSlow
	case keys.Has("n") && !keys.Has("m"):
		return ClawOpenSlow
	}
	return ClawStop
}

// Resolve determines the full command pair for a set of held keys.
func Resolve(keys KeySet) State {
	return State{
		Drive: ResolveDrive(keys),
		Claw:  ResolveClaw(keys),
	}
}
