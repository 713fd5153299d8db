package hub

import (
	"encoding/binary"
	"fmt"

	"tinygo.org/x/bluetooth"
)

// Pybricks GATT profile UUIDs.
var (
	// ServiceUUID identifies the Pybricks service advertised by the hub.
	ServiceUUID = bluetooth.NewUUID([16]byte{
		0xc5, 0xf5, 0x00, 0x01, 0x82, 0x80, 0x46, 0xda,
		0x89, 0xf4, 0x6d, 0x80, 0x51, 0xe4, 0xae, 0xef,
	})
	// CommandEventUUID is the command/event characteristic: commands are
	// written to it, status and stdout events arrive as notifications.
	CommandEventUUID = bluetooth.NewUUID([16]byte{
		0xc5, 0xf5, 0x00, 0x02, 0x82, 0x80, 0x46, 0xda,
		0x89, 0xf4, 0x6d, 0x80, 0x51, 0xe4, 0xae, 0xef,
	})
	// CapabilitiesUUID is the read-only hub capabilities characteristic.
	CapabilitiesUUID = bluetooth.NewUUID([16]byte{
		0xc5, 0xf5, 0x00, 0x03, 0x82, 0x80, 0x46, 0xda,
		0x89, 0xf4, 0x6d, 0x80, 0x51, 0xe4, 0xae, 0xef,
	})
)

// Command opcodes written to the command/event characteristic.
const (
	cmdStopUserProgram      byte = 0x00
	cmdStartUserProgram     byte = 0x01
	cmdStartREPL            byte = 0x02
	cmdWriteUserProgramMeta byte = 0x03
	cmdWriteUserRAM         byte = 0x04
	cmdRebootToUpdateMode   byte = 0x05
	cmdWriteStdin           byte = 0x06
)

// Event opcodes received as notifications.
const (
	eventStatusReport byte = 0x00
	eventWriteStdout  byte = 0x01
)

// Status flag bits from a status report event.
const statusUserProgramRunning = 1 << 6

// ramHeaderSize is the per-write overhead of a user RAM chunk: one
// opcode byte plus a uint32 offset.
const ramHeaderSize = 5

// Capabilities holds the contents of the hub capabilities characteristic.
type Capabilities struct {
	MaxWriteSize   int
	Flags          uint32
	MaxProgramSize int
}

// defaultCapabilities is assumed when the characteristic cannot be read
// (older firmware). 20 bytes is the minimum BLE ATT payload.
var defaultCapabilities = Capabilities{
	MaxWriteSize:   20,
	MaxProgramSize: 16 * 1024,
}

func parseCapabilities(b []byte) (Capabilities, error) {
	if len(b) < 10 {
		return Capabilities{}, fmt.Errorf("capabilities too short: %d bytes", len(b))
	}
	caps := Capabilities{
		MaxWriteSize:   int(binary.LittleEndian.Uint16(b[0:2])),
		Flags:          binary.LittleEndian.Uint32(b[2:6]),
		MaxProgramSize: int(binary.LittleEndian.Uint32(b[6:10])),
	}
	// A write size below the minimum ATT payload means the read was
	// garbage; fall back rather than produce zero-length chunks.
	if caps.MaxWriteSize < defaultCapabilities.MaxWriteSize {
		caps.MaxWriteSize = defaultCapabilities.MaxWriteSize
	}
	return caps, nil
}

// stdinChunks splits a stdin payload into pieces that leave room for
// the opcode byte within the hub's maximum characteristic write.
func stdinChunks(payload []byte, maxWrite int) [][]byte {
	chunkSize := maxWrite - 1
	if chunkSize <= 0 {
		chunkSize = defaultCapabilities.MaxWriteSize - 1
	}
	var chunks [][]byte
	for off := 0; off < len(payload); off += chunkSize {
		end := off + chunkSize
		if end > len(payload) {
			end = len(payload)
		}
		chunks = append(chunks, payload[off:end])
	}
	return chunks
}

// stdinFrame frames a stdin payload for the command characteristic.
func stdinFrame(payload []byte) []byte {
	frame := make([]byte, 1+len(payload))
	frame[0] = cmdWriteStdin
	copy(frame[1:], payload)
	return frame
}

// metaFrame frames a write-user-program-meta command. Writing size zero
// invalidates the stored program, which must happen before a download.
func metaFrame(size uint32) []byte {
	frame := make([]byte, 5)
	frame[0] = cmdWriteUserProgramMeta
	binary.LittleEndian.PutUint32(frame[1:], size)
	return frame
}

// ramFrame frames a user RAM chunk write at the given offset.
func ramFrame(offset uint32, chunk []byte) []byte {
	frame := make([]byte, ramHeaderSize+len(chunk))
	frame[0] = cmdWriteUserRAM
	binary.LittleEndian.PutUint32(frame[1:], offset)
	copy(frame[ramHeaderSize:], chunk)
	return frame
}

// programChunks splits a program into RAM write payloads sized to the
// hub's maximum characteristic write.
func programChunks(data []byte, maxWrite int) [][]byte {
	chunkSize := maxWrite - ramHeaderSize
	if chunkSize <= 0 {
		chunkSize = defaultCapabilities.MaxWriteSize - ramHeaderSize
	}
	var chunks [][]byte
	for off := 0; off < len(data); off += chunkSize {
		end := off + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[off:end])
	}
	return chunks
}
