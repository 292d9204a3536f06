package e2e

import (
	"os/exec"
	"path/filepath"
	"testing"
)

// buildMarlBinary builds the marl binary in the specified directory and
// returns its path.
func buildMarlBinary(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "marl.exe")
	buildCmd := exec.Command("go", "build", "-o", bin, "../../cmd/marl")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build marl: %v\n%s", err, string(out))
	}
	return bin
}

// run executes a command in dir and returns its combined output, failing the
// test on a non-zero exit.
func run(t *testing.T, dir string, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\n%s", name, args, err, string(out))
	}
	return string(out)
}
