// Package runas re-invokes perfpack inside a target application's security
// context. The outer invocation runs with ordinary shell privileges and only
// performs this context switch; the re-invoked inner command does the actual
// work against the app's private data.
package runas

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/perfpack/perfpack/internal/options"
)

// firstExtraFd is where exec places ExtraFiles in the child.
const firstExtraFd = 3

// runnerManagedFlags are set by the runner itself and never forwarded from
// the outer command line.
var runnerManagedFlags = map[string]bool{
	"--in-app": true,
	"--out-fd": true,
}

// Runner performs the context switch via the platform run-as helper.
type Runner struct {
	Log zerolog.Logger
}

// fdRef is a descriptor-carrying flag that must survive the re-invocation.
// The descriptor is inherited by the child and the flag value rewritten to
// its number on the child side.
type fdRef struct {
	flag string
	fd   int
}

// RunInAppContext re-invokes cmdName inside app's security context. The
// output file at outputPath is created here and handed to the child as an
// inherited descriptor, so the child never needs write access outside the
// app sandbox. args are the raw outer-invocation tokens; each flag is
// forwarded, dropped or remapped according to its declared policy in
// formats. The child's exit status is propagated as the returned error.
func (r *Runner) RunInAppContext(app, cmdName string, args []string, formats options.FormatMap, outputPath string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate own executable: %w", err)
	}

	forwarded, fdRefs, err := forwardArgs(args, formats)
	if err != nil {
		return err
	}

	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	defer out.Close()

	cmd := r.command(exe, app, cmdName, forwarded, fdRefs, out)
	r.Log.Debug().Strs("argv", cmd.Args).Msg("switching to app context")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run %s in app context of %s: %w", cmdName, app, err)
	}
	return nil
}

// command assembles the run-as invocation. ExtraFiles slot 0 is always the
// output stream (child fd 3); forwarded descriptors follow.
func (r *Runner) command(exe, app, cmdName string, forwarded []string, fdRefs []fdRef, out *os.File) *exec.Cmd {
	childArgs := []string{app, exe, cmdName, "--in-app", "--out-fd", strconv.Itoa(firstExtraFd)}
	childArgs = append(childArgs, forwarded...)

	extraFiles := []*os.File{out}
	for _, ref := range fdRefs {
		extraFiles = append(extraFiles, os.NewFile(uintptr(ref.fd), ref.flag))
		childArgs = append(childArgs, ref.flag, strconv.Itoa(firstExtraFd+len(extraFiles)-1))
	}

	cmd := exec.Command("run-as", childArgs...)
	cmd.ExtraFiles = extraFiles
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// forwardArgs splits raw args into tokens forwarded verbatim and descriptor
// flags that need remapping, per each flag's AppRunnerPolicy. args have
// already passed option parsing, so flag shapes are trusted here.
func forwardArgs(args []string, formats options.FormatMap) ([]string, []fdRef, error) {
	var forwarded []string
	var fdRefs []fdRef
	for i := 0; i < len(args); i++ {
		name := args[i]
		format, ok := formats[name]
		if !ok {
			return nil, nil, fmt.Errorf("unknown option %q in app-context forwarding", name)
		}
		hasValue := format.Type != options.Bool
		if runnerManagedFlags[name] {
			if hasValue {
				i++
			}
			continue
		}
		switch format.Policy {
		case options.NotAllowed:
			if hasValue {
				i++
			}
		case options.Allowed:
			forwarded = append(forwarded, name)
			if hasValue {
				i++
				forwarded = append(forwarded, args[i])
			}
		case options.CheckFd:
			i++
			fd, err := strconv.Atoi(args[i])
			if err != nil || fd < 0 {
				return nil, nil, fmt.Errorf("invalid descriptor %q for %s", args[i], name)
			}
			fdRefs = append(fdRefs, fdRef{flag: name, fd: fd})
		}
	}
	return forwarded, fdRefs, nil
}
