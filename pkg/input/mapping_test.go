package input

import (
	"reflect"
	"testing"

	"github.com/danielvflores/lego-spike-claw/pkg/command"
)

type recordedKey struct {
	key  string
	down bool
}

type recordingSink struct {
	keys    []recordedKey
	drive   []command.DriveCommand
	claw    []command.ClawCommand
	cleared int
}

func (r *recordingSink) SetKey(key string, down bool) {
	r.keys = append(r.keys, recordedKey{key, down})
}

func (r *recordingSink) SetPerpetualDrive(cmd command.DriveCommand) {
	r.drive = append(r.drive, cmd)
}

func (r *recordingSink) SetPerpetualClaw(cmd command.ClawCommand) {
	r.claw = append(r.claw, cmd)
}

func (r *recordingSink) ClearPerpetual() {
	r.cleared++
}

func newTestTranslator() (*translator, *recordingSink) {
	sink := &recordingSink{}
	return newTranslator(DefaultMapping(), sink), sink
}

func TestStickToKeys(t *testing.T) {
	tr, sink := newTestTranslator()

	tr.absolute(absStickY, -20000) // push up
	tr.absolute(absStickX, 15000)  // push right

	want := []recordedKey{{"w", true}, {"d", true}}
	if !reflect.DeepEqual(sink.keys, want) {
		t.Errorf("keys = %v, want %v", sink.keys, want)
	}

	// Return to center releases both.
	tr.absolute(absStickY, 0)
	tr.absolute(absStickX, 0)
	want = append(want, recordedKey{"w", false}, recordedKey{"d", false})
	if !reflect.DeepEqual(sink.keys, want) {
		t.Errorf("keys = %v, want %v", sink.keys, want)
	}
}

func TestStickDeadzone(t *testing.T) {
	tr, sink := newTestTranslator()

	tr.absolute(absStickX, 3000)
	tr.absolute(absStickY, -3000)
	if len(sink.keys) != 0 {
		t.Errorf("keys inside deadzone: %v", sink.keys)
	}
}

func TestStickNoRepeats(t *testing.T) {
	tr, sink := newTestTranslator()

	tr.absolute(absStickY, -20000)
	tr.absolute(absStickY, -25000)
	tr.absolute(absStickY, -30000)
	if len(sink.keys) != 1 {
		t.Errorf("got %d key events for one held direction, want 1", len(sink.keys))
	}
}

func TestHatToSlowKeys(t *testing.T) {
	tr, sink := newTestTranslator()

	tr.absolute(absHatY, -1)
	tr.absolute(absHatY, 0)
	tr.absolute(absHatX, 1)

	want := []recordedKey{{"i", true}, {"i", false}, {"l", true}}
	if !reflect.DeepEqual(sink.keys, want) {
		t.Errorf("keys = %v, want %v", sink.keys, want)
	}
}

func TestTriggersToClawKeys(t *testing.T) {
	tr, sink := newTestTranslator()

	tr.absolute(absTriggerL, 255)
	tr.absolute(absTriggerR, 255)
	tr.absolute(absTriggerL, 0)

	want := []recordedKey{{"space", true}, {"g", true}, {"space", false}}
	if !reflect.DeepEqual(sink.keys, want) {
		t.Errorf("keys = %v, want %v", sink.keys, want)
	}
}

func TestShoulderButtons(t *testing.T) {
	tr, sink := newTestTranslator()

	tr.key(btnShoulder, true)
	tr.key(btnShoulder, false)
	tr.key(btnShoulderR, true)

	want := []recordedKey{{"m", true}, {"m", false}, {"n", true}}
	if !reflect.DeepEqual(sink.keys, want) {
		t.Errorf("keys = %v, want %v", sink.keys, want)
	}
}

func TestFaceButtonsPerpetual(t *testing.T) {
	tr, sink := newTestTranslator()

	tr.key(btnWest, true)
	tr.key(btnWest, false) // release does nothing
	tr.key(btnEast, true)
	tr.key(btnStart, true)
	tr.key(btnNorth, true)

	wantClaw := []command.ClawCommand{command.ClawClose, command.ClawOpen, command.ClawStop}
	if !reflect.DeepEqual(sink.claw, wantClaw) {
		t.Errorf("claw = %v, want %v", sink.claw, wantClaw)
	}
	if sink.cleared != 1 {
		t.Errorf("cleared = %d, want 1", sink.cleared)
	}
}

func TestRightStickPerpetualDrive(t *testing.T) {
	tr, sink := newTestTranslator()

	tr.absolute(absRStickY, -20000) // forward
	tr.absolute(absRStickY, -25000) // still forward, no repeat
	tr.absolute(absRStickX, 30000)  // x dominant now: right
	tr.absolute(absRStickX, 0)      // back to forward
	tr.absolute(absRStickY, 0)      // centered: lock survives

	want := []command.DriveCommand{
		command.DriveForward,
		command.DriveRight,
		command.DriveForward,
	}
	if !reflect.DeepEqual(sink.drive, want) {
		t.Errorf("drive = %v, want %v", sink.drive, want)
	}
	if len(sink.keys) != 0 {
		t.Errorf("right stick leaked key events: %v", sink.keys)
	}
}

func TestRightStickLockUntilCleared(t *testing.T) {
	tr, sink := newTestTranslator()

	tr.absolute(absRStickY, -20000) // forward
	tr.absolute(absRStickY, 0)      // center keeps the lock
	if got := len(sink.drive); got != 1 {
		t.Fatalf("drive events = %d, want 1", got)
	}

	// Triangle clears, and the same direction locks in again after.
	tr.key(btnNorth, true)
	tr.absolute(absRStickY, -20000)

	want := []command.DriveCommand{command.DriveForward, command.DriveForward}
	if !reflect.DeepEqual(sink.drive, want) {
		t.Errorf("drive = %v, want %v", sink.drive, want)
	}
	if sink.cleared != 1 {
		t.Errorf("cleared = %d, want 1", sink.cleared)
	}
}

func TestReleaseAll(t *testing.T) {
	tr, sink := newTestTranslator()

	tr.absolute(absStickY, -20000)
	tr.absolute(absTriggerL, 255)
	tr.releaseAll()

	ups := 0
	for _, k := range sink.keys {
		if !k.down {
			ups++
		}
	}
	if ups != 2 {
		t.Errorf("releaseAll lifted %d keys, want 2", ups)
	}

	// Idempotent.
	before := len(sink.keys)
	tr.releaseAll()
	if len(sink.keys) != before {
		t.Error("releaseAll repeated key-up events")
	}
}
