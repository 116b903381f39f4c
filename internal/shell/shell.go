// Package shell runs one-shot device commands (getprop, setprop, pm, rm).
// A Runner is injected into the packages that shell out so tests can swap in
// a fake without spawning processes.
package shell

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// Runner executes external commands.
type Runner interface {
	// Output runs the command and returns its combined stdout. Stderr is
	// captured and folded into the error on failure.
	Output(name string, args ...string) (string, error)
	// Run runs the command for its side effects only.
	Run(name string, args ...string) error
}

// New returns a Runner backed by os/exec.
func New() Runner {
	return execRunner{}
}

type execRunner struct{}

func (execRunner) Output(name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w (stderr: %s)",
			name, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}

func (execRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
