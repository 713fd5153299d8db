package command

import "fmt"

// Speeds holds the motor speeds, in degrees per second, used when
// rendering commands.
type Speeds struct {
	Drive    int `json:"drive"`
	Slow     int `json:"slow"`
	Diagonal int `json:"diagonal"` // horizontal axis speed during fast diagonals
	Claw     int `json:"claw"`
	ClawSlow int `json:"claw_slow"`
}

// DefaultSpeeds returns the standard speed table.
func DefaultSpeeds() Speeds {
	return Speeds{
		Drive:    300,
		Slow:     150,
		Diagonal: 200,
		Claw:     300,
		ClawSlow: 150,
	}
}

func runLine(m Motor, speed int) string {
	return fmt.Sprintf("%s run %d", m, speed)
}

func stopLine(m Motor) string {
	return fmt.Sprintf("%s stop", m)
}

// MotorSpeeds returns the commanded speed of each motor for a command
// pair. Stopped motors report zero.
func MotorSpeeds(s State, sp Speeds) map[Motor]int {
	out := map[Motor]int{
		MotorHorizontal: 0,
		MotorVertical:   0,
		MotorClaw:       0,
	}
	switch s.Drive {
	case DriveForward:
		out[MotorVertical] = sp.Drive
	case DriveBackward:
		out[MotorVertical] = -sp.Drive
	case DriveLeft:
		out[MotorHorizontal] = -sp.Drive
	case DriveRight:
		out[MotorHorizontal] = sp.Drive
	case DriveLeftForward:
		out[MotorHorizontal] = -sp.Diagonal
		out[MotorVertical] = sp.Drive
	case DriveRightForward:
		out[MotorHorizontal] = sp.Diagonal
		out[MotorVertical] = sp.Drive
	case DriveLeftBackward:
		out[MotorHorizontal] = -sp.Diagonal
		out[MotorVertical] = -sp.Drive
	case DriveRightBackward:
		out[MotorHorizontal] = sp.Diagonal
		out[MotorVertical] = -sp.Drive
	case DriveForwardSlow:
		out[MotorVertical] = sp.Slow
	case DriveBackwardSlow:
		out[MotorVertical] = -sp.Slow
	case DriveLeftSlow:
		out[MotorHorizontal] = -sp.Slow
	case DriveRightSlow:
		out[MotorHorizontal] = sp.Slow
	}
	switch s.Claw {
	case ClawClose:
		out[MotorClaw] = sp.Claw
	case ClawOpen:
		out[MotorClaw] = -sp.Claw
	case ClawCloseSlow:
		out[MotorClaw] = sp.ClawSlow
	case ClawOpenSlow:
		out[MotorClaw] = -sp.ClawSlow
	}
	return out
}

// Lines renders a command pair as dispatcher stdin lines. Every motor
// gets exactly one line, so a new command always overrides whatever the
// hub was doing before.
func Lines(s State, sp Speeds) []string {
	speeds := MotorSpeeds(s, sp)
	lines := make([]string, 0, len(speeds))
	for _, m := range AllMotors() {
		if v := speeds[m]; v != 0 {
			lines = append(lines, runLine(m, v))
		} else {
			lines = append(lines, stopLine(m))
		}
	}
	return lines
}
