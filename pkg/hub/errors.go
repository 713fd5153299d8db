package hub

import "errors"

var (
	// ErrNoHub is returned when no Pybricks hub was found during a scan.
	ErrNoHub = errors.New("no Pybricks hub found")

	// ErrNotConnected is returned when an operation needs a live hub
	// connection and there is none.
	ErrNotConnected = errors.New("hub not connected")

	// ErrProgramTooLarge is returned when a compiled program exceeds the
	// hub's reported maximum program size.
	ErrProgramTooLarge = errors.New("program exceeds hub capacity")

	// ErrMpyCrossNotFound is returned when no mpy-cross compiler is on
	// PATH.
	ErrMpyCrossNotFound = errors.New("mpy-cross not found in PATH")
)
