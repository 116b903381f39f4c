// Package android wraps the device interfaces perfpack depends on: system
// properties, the build version and the package manager listing. Everything
// goes through an injected shell.Runner so tests never touch a real device.
package android

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/perfpack/perfpack/internal/shell"
)

// Props reads and writes system properties through getprop/setprop.
type Props struct {
	runner shell.Runner
	log    zerolog.Logger
}

// NewProps returns a property accessor backed by the given runner.
func NewProps(runner shell.Runner, log zerolog.Logger) *Props {
	return &Props{runner: runner, log: log}
}

// Get returns the property value, or "" when the property is unset.
func (p *Props) Get(key string) (string, error) {
	out, err := p.runner.Output("getprop", key)
	if err != nil {
		return "", fmt.Errorf("failed to read property %s: %w", key, err)
	}
	return strings.TrimSpace(out), nil
}

// Set writes a property value. persist.* properties survive reboot.
func (p *Props) Set(key, value string) error {
	if err := p.runner.Run("setprop", key, value); err != nil {
		return fmt.Errorf("failed to set property %s: %w", key, err)
	}
	p.log.Debug().Str("key", key).Str("value", value).Msg("property set")
	return nil
}
