// Package spikeclaw provides keyboard and gamepad teleoperation for a
// LEGO SPIKE Prime claw robot running Pybricks firmware, over Bluetooth
// Low Energy.
//
// The robot has three motors: A (horizontal axis), C (vertical axis) and
// E (the claw). A small dispatcher program runs on the hub and reads
// motor commands from standard input; this module connects to the hub's
// Pybricks BLE service and streams those commands as you press keys.
//
// # Installation
//
//	go install github.com/danielvflores/lego-spike-claw/cmd/spikeclaw@latest
//
// # Usage
//
// First, scan for your hub and save its address:
//
//	spikeclaw setup
//
// Push the dispatcher program to the hub (requires mpy-cross):
//
//	spikeclaw install
//
// Then start teleoperation:
//
//	spikeclaw teleoperate
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/spikeclaw: CLI with setup, install, test, scan and teleoperate commands
//   - pkg/command: key-set to motor-command resolution
//   - pkg/hub: Pybricks BLE client and embedded hub programs
//   - pkg/teleop: teleoperation controller
//   - pkg/input: gamepad support (Linux, evdev)
package spikeclaw
