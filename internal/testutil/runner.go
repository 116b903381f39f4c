package testutil

import (
	"fmt"
	"strings"
)

// FakeRunner implements shell.Runner with scripted responses, keyed by the
// full command line. Unscripted commands fail loudly.
type FakeRunner struct {
	// Outputs maps a command line ("getprop foo") to its stdout.
	Outputs map[string]string
	// Errs maps a command line to a forced error.
	Errs map[string]error
	// Calls records every command line in invocation order.
	Calls []string
	// OnCall, when set, runs after each command is recorded. Tests use it to
	// emulate side effects of the real command.
	OnCall func(cmdline string)
}

// NewFakeRunner returns an empty FakeRunner ready for scripting.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Outputs: make(map[string]string),
		Errs:    make(map[string]error),
	}
}

func (r *FakeRunner) Output(name string, args ...string) (string, error) {
	cmdline := commandLine(name, args)
	r.Calls = append(r.Calls, cmdline)
	if r.OnCall != nil {
		r.OnCall(cmdline)
	}
	if err, ok := r.Errs[cmdline]; ok {
		return "", err
	}
	out, ok := r.Outputs[cmdline]
	if !ok {
		return "", fmt.Errorf("unscripted command: %s", cmdline)
	}
	return out, nil
}

func (r *FakeRunner) Run(name string, args ...string) error {
	cmdline := commandLine(name, args)
	r.Calls = append(r.Calls, cmdline)
	if r.OnCall != nil {
		r.OnCall(cmdline)
	}
	if err, ok := r.Errs[cmdline]; ok {
		return err
	}
	return nil
}

// Called reports whether a command line was executed.
func (r *FakeRunner) Called(cmdline string) bool {
	for _, c := range r.Calls {
		if c == cmdline {
			return true
		}
	}
	return false
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
