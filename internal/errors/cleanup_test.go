package errors

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type failingCloser struct{ err error }

func (f failingCloser) Close() error { return f.err }

func TestDeferClose_LogsCloseError(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(&out)

	DeferClose(logger, failingCloser{err: errors.New("disk gone")}, "close failed")
	assert.Contains(t, out.String(), "disk gone")
	assert.Contains(t, out.String(), "close failed")
}

func TestDeferClose_NilCloser(t *testing.T) {
	assert.NotPanics(t, func() {
		DeferClose(zerolog.New(io.Discard), nil, "ignored")
	})
}

func TestDeferClose_Success(t *testing.T) {
	var out bytes.Buffer
	logger := zerolog.New(&out)

	DeferClose(logger, failingCloser{}, "close failed")
	assert.Empty(t, out.String())
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil, "fine") })
	assert.Panics(t, func() { Must(errors.New("boom"), "init") })
}
