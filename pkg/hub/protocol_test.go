package hub

import (
	"bytes"
	"testing"
)

func TestStdinFrame(t *testing.T) {
	frame := stdinFrame([]byte("motorA run 300\n"))
	if frame[0] != cmdWriteStdin {
		t.Errorf("opcode = %#x, want %#x", frame[0], cmdWriteStdin)
	}
	if string(frame[1:]) != "motorA run 300\n" {
		t.Errorf("payload = %q", frame[1:])
	}
}

func TestMetaFrame(t *testing.T) {
	tests := []struct {
		size     uint32
		expected []byte
	}{
		{0, []byte{0x03, 0, 0, 0, 0}},
		{1234, []byte{0x03, 0xd2, 0x04, 0, 0}},
		{0x01020304, []byte{0x03, 0x04, 0x03, 0x02, 0x01}},
	}
	for _, tt := range tests {
		if got := metaFrame(tt.size); !bytes.Equal(got, tt.expected) {
			t.Errorf("metaFrame(%d) = %v, want %v", tt.size, got, tt.expected)
		}
	}
}

func TestRamFrame(t *testing.T) {
	frame := ramFrame(0x0100, []byte{0xaa, 0xbb})
	want := []byte{0x04, 0x00, 0x01, 0x00, 0x00, 0xaa, 0xbb}
	if !bytes.Equal(frame, want) {
		t.Errorf("ramFrame() = %v, want %v", frame, want)
	}
}

func TestParseCapabilities(t *testing.T) {
	// max write 0x00a4, flags 0x00000006, max program 0x00008000
	raw := []byte{0xa4, 0x00, 0x06, 0x00, 0x00, 0x00, 0x00, 0x80, 0x00, 0x00}
	caps, err := parseCapabilities(raw)
	if err != nil {
		t.Fatalf("parseCapabilities: %v", err)
	}
	if caps.MaxWriteSize != 164 {
		t.Errorf("MaxWriteSize = %d, want 164", caps.MaxWriteSize)
	}
	if caps.Flags != 6 {
		t.Errorf("Flags = %d, want 6", caps.Flags)
	}
	if caps.MaxProgramSize != 0x8000 {
		t.Errorf("MaxProgramSize = %d, want %d", caps.MaxProgramSize, 0x8000)
	}

	if _, err := parseCapabilities([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for short capabilities")
	}

	// A corrupt read reporting a write size below the ATT minimum is
	// clamped to the default instead of being trusted.
	garbage := []byte{0x00, 0x00, 0, 0, 0, 0, 0x00, 0x80, 0x00, 0x00}
	caps, err = parseCapabilities(garbage)
	if err != nil {
		t.Fatalf("parseCapabilities: %v", err)
	}
	if caps.MaxWriteSize != defaultCapabilities.MaxWriteSize {
		t.Errorf("MaxWriteSize = %d, want %d", caps.MaxWriteSize, defaultCapabilities.MaxWriteSize)
	}
}

func TestProgramChunks(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}

	chunks := programChunks(data, 20) // 15-byte payloads
	if len(chunks) != 7 {
		t.Fatalf("got %d chunks, want 7", len(chunks))
	}
	total := 0
	for i, c := range chunks {
		if i < len(chunks)-1 && len(c) != 15 {
			t.Errorf("chunk %d size = %d, want 15", i, len(c))
		}
		total += len(c)
	}
	if total != len(data) {
		t.Errorf("chunks cover %d bytes, want %d", total, len(data))
	}
	if chunks[0][0] != 0 || chunks[1][0] != 15 {
		t.Error("chunks out of order")
	}

	if got := programChunks(nil, 20); got != nil {
		t.Errorf("programChunks(nil) = %v, want nil", got)
	}
}

func TestStdinChunks(t *testing.T) {
	payload := []byte("motorA run 300\nmotorC run 300\n")

	chunks := stdinChunks(payload, 20) // 19-byte payloads
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if len(chunks[0]) != 19 || len(chunks[1]) != 11 {
		t.Errorf("chunk sizes = %d, %d, want 19, 11", len(chunks[0]), len(chunks[1]))
	}

	// Bogus write sizes must not produce empty or negative chunks.
	for _, maxWrite := range []int{0, 1, -5} {
		chunks := stdinChunks(payload, maxWrite)
		total := 0
		for _, c := range chunks {
			if len(c) == 0 {
				t.Fatalf("stdinChunks(%d) produced empty chunk", maxWrite)
			}
			total += len(c)
		}
		if total != len(payload) {
			t.Errorf("stdinChunks(%d) covers %d bytes, want %d", maxWrite, total, len(payload))
		}
	}
}

func TestStdoutLineAssembly(t *testing.T) {
	h := &Hub{stdoutCh: make(chan string, 8), statusCh: make(chan bool, 1)}

	h.appendStdout([]byte("dispatcher "))
	select {
	case line := <-h.stdoutCh:
		t.Fatalf("unexpected line before newline: %q", line)
	default:
	}

	h.appendStdout([]byte("ready\r\nmotorA ready\n"))
	want := []string{"dispatcher ready", "motorA ready"}
	for _, w := range want {
		select {
		case line := <-h.stdoutCh:
			if line != w {
				t.Errorf("line = %q, want %q", line, w)
			}
		default:
			t.Fatalf("missing line %q", w)
		}
	}
}

func TestHandleStatusEvent(t *testing.T) {
	h := &Hub{stdoutCh: make(chan string, 1), statusCh: make(chan bool, 1)}

	h.handleEvent([]byte{eventStatusReport, 0x40, 0, 0, 0})
	if !h.ProgramRunning() {
		t.Error("ProgramRunning() = false after running status")
	}
	select {
	case running := <-h.statusCh:
		if !running {
			t.Error("status change = false, want true")
		}
	default:
		t.Error("no status change delivered")
	}

	h.handleEvent([]byte{eventStatusReport, 0, 0, 0, 0})
	if h.ProgramRunning() {
		t.Error("ProgramRunning() = true after stopped status")
	}
}
