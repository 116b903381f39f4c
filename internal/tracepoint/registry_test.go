package tracepoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTracefs builds an events tree like:
//
//	events/sched/sched_switch/id     -> "316"
//	events/sched/sched_wakeup/id     -> "320"
//	events/irq/irq_handler_entry/id  -> "88"
func fakeTracefs(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "events")
	write := func(subsystem, event, id string) {
		dir := filepath.Join(root, subsystem, event)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "id"), []byte(id+"\n"), 0o644))
	}
	write("sched", "sched_switch", "316")
	write("sched", "sched_wakeup", "320")
	write("irq", "irq_handler_entry", "88")

	// Files at subsystem level (e.g. "enable") and events without a
	// readable id must be ignored.
	require.NoError(t, os.WriteFile(filepath.Join(root, "header_page"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sched", "hidden_event"), 0o755))

	return root
}

func TestEvents(t *testing.T) {
	reg := &Registry{Roots: []string{fakeTracefs(t)}}

	events, err := reg.Events()
	require.NoError(t, err)
	assert.Equal(t, []Event{
		{Name: "irq:irq_handler_entry", ID: 88},
		{Name: "sched:sched_switch", ID: 316},
		{Name: "sched:sched_wakeup", ID: 320},
	}, events)
}

func TestEvents_FallbackRoot(t *testing.T) {
	primary := filepath.Join(t.TempDir(), "nonexistent")
	reg := &Registry{Roots: []string{primary, fakeTracefs(t)}}

	events, err := reg.Events()
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestEvents_NoTracefs(t *testing.T) {
	reg := &Registry{Roots: []string{filepath.Join(t.TempDir(), "missing")}}

	_, err := reg.Events()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tracefs events directory")
}

func TestWriteToFile(t *testing.T) {
	reg := &Registry{Roots: []string{fakeTracefs(t)}}
	path := filepath.Join(t.TempDir(), "tracepoint_events")

	require.NoError(t, reg.WriteToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"irq:irq_handler_entry 88\nsched:sched_switch 316\nsched:sched_wakeup 320\n",
		string(data))

	// No leftover temp files.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteToFile_Rewrite(t *testing.T) {
	reg := &Registry{Roots: []string{fakeTracefs(t)}}
	path := filepath.Join(t.TempDir(), "tracepoint_events")

	require.NoError(t, os.WriteFile(path, []byte("stale contents"), 0o644))
	require.NoError(t, reg.WriteToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}
