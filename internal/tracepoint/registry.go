// Package tracepoint enumerates kernel tracepoint events from tracefs and
// materializes them to a file. App contexts cannot read tracefs themselves,
// so api-prepare writes the list to a world-readable path up front.
package tracepoint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultRoots are the tracefs event trees, in preference order. Older
// kernels only expose the tree under debugfs.
var DefaultRoots = []string{
	"/sys/kernel/tracing/events",
	"/sys/kernel/debug/tracing/events",
}

// Event is one tracepoint, named "<subsystem>:<name>".
type Event struct {
	Name string
	ID   uint64
}

// Registry reads tracepoint events from a tracefs events tree.
type Registry struct {
	// Roots overrides DefaultRoots, for tests.
	Roots []string
}

// Events returns all tracepoints found under the first readable root,
// sorted by name. Event directories without a readable id file are skipped;
// the kernel hides ids the caller is not allowed to use.
func (r *Registry) Events() ([]Event, error) {
	roots := r.Roots
	if len(roots) == 0 {
		roots = DefaultRoots
	}

	var root string
	for _, candidate := range roots {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			root = candidate
			break
		}
	}
	if root == "" {
		return nil, fmt.Errorf("no tracefs events directory found (tried %s)", strings.Join(roots, ", "))
	}

	subsystems, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", root, err)
	}

	var events []Event
	for _, subsystem := range subsystems {
		if !subsystem.IsDir() {
			continue
		}
		subsystemDir := filepath.Join(root, subsystem.Name())
		entries, err := os.ReadDir(subsystemDir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(subsystemDir, entry.Name(), "id"))
			if err != nil {
				continue
			}
			id, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
			if err != nil {
				continue
			}
			events = append(events, Event{
				Name: subsystem.Name() + ":" + entry.Name(),
				ID:   id,
			})
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Name < events[j].Name })
	return events, nil
}

// WriteToFile writes the current tracepoint list as "name id" lines. The
// write is atomic (temp file plus rename) so a reader never observes a
// partial list at the target path.
func (r *Registry) WriteToFile(path string) error {
	events, err := r.Events()
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, event := range events {
		fmt.Fprintf(&sb, "%s %d\n", event.Name, event.ID)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename %s to %s: %w", tmpName, path, err)
	}
	return nil
}
