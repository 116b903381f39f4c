package collect

import (
	"os"

	"github.com/rs/zerolog"
)

// exit is swapped out by tests.
var exit = os.Exit

// WatchStopSignal arms a detached watcher on the stop-signal descriptor. The
// goroutine blocks on a single read and terminates the whole process as soon
// as the descriptor becomes readable or is closed. This is an emergency kill
// switch for the controlling process, not a graceful shutdown: there is no
// way to cancel it and no cleanup runs, so an in-flight archive write is
// simply abandoned.
func WatchStopSignal(f *os.File, log zerolog.Logger) {
	go func() {
		buf := make([]byte, 1)
		_, _ = f.Read(buf)
		log.Error().Msg("stop signal received, aborting collection")
		exit(1)
	}()
}
