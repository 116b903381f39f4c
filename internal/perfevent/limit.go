// Package perfevent checks whether the kernel allows application-level
// profiling, relaxing the Android-wide perf_harden gate when necessary.
package perfevent

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/perfpack/perfpack/internal/android"
	"github.com/perfpack/perfpack/internal/constants"
)

// DefaultParanoidPath is the kernel's perf-event access control knob.
const DefaultParanoidPath = "/proc/sys/kernel/perf_event_paranoid"

// maxParanoidLevel is the highest perf_event_paranoid value at which an
// unprivileged process may still profile itself.
const maxParanoidLevel = 1

// Checker verifies the kernel perf-event limit.
type Checker struct {
	// ParanoidPath overrides DefaultParanoidPath, for tests.
	ParanoidPath string
	Props        *android.Props
	Log          zerolog.Logger
}

// CheckLimit returns nil when the perf-event limit permits app profiling.
// When the limit is too strict it clears security.perf_harden, a global and
// harder-to-reverse relaxation, and re-checks. Init rewrites the kernel knob
// in response to that property, so the re-read observes the effect.
func (c *Checker) CheckLimit() error {
	level, err := c.readParanoidLevel()
	if err != nil {
		return err
	}
	if level <= maxParanoidLevel {
		return nil
	}
	c.Log.Debug().Int("level", level).Msg("perf_event_paranoid too strict, relaxing perf_harden")

	harden, err := c.Props.Get(constants.PerfHardenProp)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", constants.PerfHardenProp, err)
	}
	if harden != "0" {
		if err := c.Props.Set(constants.PerfHardenProp, "0"); err != nil {
			return err
		}
		level, err = c.readParanoidLevel()
		if err != nil {
			return err
		}
		if level <= maxParanoidLevel {
			return nil
		}
	}
	return fmt.Errorf("kernel perf_event_paranoid is %d, which blocks app profiling", level)
}

func (c *Checker) readParanoidLevel() (int, error) {
	path := c.ParanoidPath
	if path == "" {
		path = DefaultParanoidPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	level, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("unexpected contents of %s: %w", path, err)
	}
	return level, nil
}
