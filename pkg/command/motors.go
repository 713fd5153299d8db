// Package command resolves sets of held keys into motor commands for the
// claw robot, and renders those commands as dispatcher stdin lines.
package command

// Motor identifies a motor port on the hub.
type Motor string

// Motor ports for the claw robot.
const (
	MotorHorizontal Motor = "motorA" // left/right axis
	MotorVertical   Motor = "motorC" // forward/back axis
	MotorClaw       Motor = "motorE" // claw open/close
)

// AllMotors returns all motors in port order (A, C, E).
func AllMotors() []Motor {
	return []Motor{
		MotorHorizontal,
		MotorVertical,
		MotorClaw,
	}
}
