package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutput(t *testing.T) {
	out, err := New().Output("sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestOutput_FailureIncludesStderr(t *testing.T) {
	_, err := New().Output("sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestRun(t *testing.T) {
	require.NoError(t, New().Run("true"))
	require.Error(t, New().Run("false"))
}
