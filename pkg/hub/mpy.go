package hub

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// mpyCrossNames are the compiler binaries tried in order. Pybricks
// firmware wants bytecode version 6.
var mpyCrossNames = []string{"mpy-cross-v6", "mpy-cross"}

// Compile compiles MicroPython source to .mpy bytecode by shelling out
// to mpy-cross.
func Compile(ctx context.Context, source string) ([]byte, error) {
	bin, err := findMpyCross()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "spikeclaw-mpy")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "program.py")
	out := filepath.Join(dir, "program.mpy")
	if err := os.WriteFile(src, []byte(source), 0644); err != nil {
		return nil, fmt.Errorf("write source: %w", err)
	}

	cmd := exec.CommandContext(ctx, bin, "-o", out, src)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("mpy-cross: %v: %s", err, output)
	}

	mpy, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("read compiled program: %w", err)
	}
	return mpy, nil
}

func findMpyCross() (string, error) {
	for _, name := range mpyCrossNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrMpyCrossNotFound
}
