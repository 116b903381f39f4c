package android

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfpack/perfpack/internal/testutil"
)

func TestProps_Get(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Outputs["getprop ro.build.version.release"] = "13\n"

	props := NewProps(runner, testutil.NewTestLogger(t))
	val, err := props.Get("ro.build.version.release")
	require.NoError(t, err)
	assert.Equal(t, "13", val)
}

func TestProps_GetUnset(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Outputs["getprop security.perf_harden"] = "\n"

	props := NewProps(runner, testutil.NewTestLogger(t))
	val, err := props.Get("security.perf_harden")
	require.NoError(t, err)
	assert.Empty(t, val)
}

func TestProps_Set(t *testing.T) {
	runner := testutil.NewFakeRunner()
	props := NewProps(runner, testutil.NewTestLogger(t))

	require.NoError(t, props.Set("persist.simpleperf.profile_app_uid", "10089"))
	assert.True(t, runner.Called("setprop persist.simpleperf.profile_app_uid 10089"))
}

func TestProps_SetFailure(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Errs["setprop security.perf_harden 0"] = errors.New("permission denied")

	props := NewProps(runner, testutil.NewTestLogger(t))
	err := props.Set("security.perf_harden", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security.perf_harden")
}

func TestVersion(t *testing.T) {
	tests := []struct {
		name     string
		codename string
		release  string
		want     int
	}{
		{name: "release build", codename: "REL", release: "13", want: 13},
		{name: "dotted release", codename: "REL", release: "4.4.4", want: 4},
		{name: "codename T", codename: "T", release: "", want: 13},
		{name: "codename S", codename: "S", release: "", want: 12},
		{name: "unknown codename", codename: "Tiramisu", release: "", want: 0},
		{name: "missing properties", codename: "", release: "", want: 0},
		{name: "garbage release", codename: "REL", release: "next", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := testutil.NewFakeRunner()
			runner.Outputs["getprop ro.build.version.codename"] = tt.codename + "\n"
			runner.Outputs["getprop ro.build.version.release"] = tt.release + "\n"

			props := NewProps(runner, testutil.NewTestLogger(t))
			assert.Equal(t, tt.want, props.Version())
		})
	}
}
