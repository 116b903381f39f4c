// Package options parses raw command-line tokens against a per-command
// option table. Parsing is strict and happens before any side effect:
// unknown flags, malformed values, duplicates of single-valued flags and
// missing arguments are all reported as errors up front.
//
// Consumers pull values out of the parsed set by name; each pull removes the
// entry. After pulling everything it knows about, a command calls
// AssertEmpty, which panics on leftovers: an option that was declared in the
// table but never consumed is a programming bug, not a user error.
package options

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueType declares what kind of argument a flag carries.
type ValueType int

const (
	// String flags take one free-form argument.
	String ValueType = iota
	// Uint flags take one non-negative integer argument.
	Uint
	// Bool flags take no argument; presence means true.
	Bool
	// Fd flags take one inherited file descriptor number.
	Fd
)

// AppRunnerPolicy controls what the app-context runner may do with a flag
// when it re-invokes a command inside an app's security context.
type AppRunnerPolicy int

const (
	// NotAllowed flags are consumed by the outer invocation and never
	// forwarded into the app context.
	NotAllowed AppRunnerPolicy = iota
	// Allowed flags are forwarded verbatim.
	Allowed
	// CheckFd flags carry descriptors owned and renumbered by the runner;
	// the runner sets them itself and rejects caller-supplied values.
	CheckFd
)

// Format describes one flag in a command's option table.
type Format struct {
	Type   ValueType
	Policy AppRunnerPolicy
}

// FormatMap is a command's option table, keyed by flag name (with dashes).
type FormatMap map[string]Format

type value struct {
	str string
	num uint64
}

// Set holds parsed option values until their consumers pull them out.
type Set struct {
	values map[string]value
}

// Parse validates args against formats and returns the parsed option set.
// All recognized flags are single-valued; repeating one is an error.
func Parse(args []string, formats FormatMap) (*Set, error) {
	set := &Set{values: make(map[string]value)}
	for i := 0; i < len(args); i++ {
		name := args[i]
		format, ok := formats[name]
		if !ok {
			return nil, fmt.Errorf("unknown option %q", name)
		}
		if _, dup := set.values[name]; dup {
			return nil, fmt.Errorf("option %s used more than once", name)
		}
		if format.Type == Bool {
			set.values[name] = value{}
			continue
		}
		i++
		if i == len(args) {
			return nil, fmt.Errorf("option %s requires an argument", name)
		}
		arg := args[i]
		switch format.Type {
		case String:
			set.values[name] = value{str: arg}
		case Uint:
			n, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q for option %s: expected unsigned integer", arg, name)
			}
			set.values[name] = value{num: n}
		case Fd:
			n, err := strconv.ParseUint(arg, 10, 64)
			if err != nil || n > math.MaxInt32 {
				return nil, fmt.Errorf("invalid value %q for option %s: expected file descriptor", arg, name)
			}
			set.values[name] = value{num: n}
		}
	}
	return set, nil
}

// PullString removes and returns a string option. ok reports presence.
func (s *Set) PullString(name string) (val string, ok bool) {
	v, ok := s.values[name]
	if ok {
		delete(s.values, name)
	}
	return v.str, ok
}

// PullUint removes and returns an unsigned integer option.
func (s *Set) PullUint(name string) (val uint64, ok bool) {
	v, ok := s.values[name]
	if ok {
		delete(s.values, name)
	}
	return v.num, ok
}

// PullBool removes a boolean option, reporting whether it was present.
func (s *Set) PullBool(name string) bool {
	_, ok := s.values[name]
	if ok {
		delete(s.values, name)
	}
	return ok
}

// PullFd removes and returns a file descriptor option.
func (s *Set) PullFd(name string) (fd int, ok bool) {
	v, ok := s.values[name]
	if ok {
		delete(s.values, name)
	}
	return int(v.num), ok
}

// AssertEmpty panics if any parsed option was never pulled. A leftover means
// the option table and the command's consumption logic are out of sync.
func (s *Set) AssertEmpty() {
	if len(s.values) == 0 {
		return
	}
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	panic(fmt.Sprintf("options: unconsumed flags %s", strings.Join(names, ", ")))
}
