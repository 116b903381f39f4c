// Package collect gathers profiler recording files from the data directory
// into a zip archive and cleans the directory up afterwards. It runs inside
// the target app's security context.
package collect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/perfpack/perfpack/internal/archive"
	"github.com/perfpack/perfpack/internal/constants"
	"github.com/perfpack/perfpack/internal/shell"
)

// Collector archives one app's recording data.
type Collector struct {
	// DataDir is the recording directory, relative to the app's working
	// directory. Defaults to constants.DataDir.
	DataDir string
	// Runner performs the recursive delete after a successful collection.
	Runner shell.Runner
	Log    zerolog.Logger
}

func (c *Collector) dataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return constants.DataDir
}

// Collect streams every eligible recording file into a zip archive written
// to out. Temporary files are filtered by name prefix, and each entry is
// re-checked to be a regular file right before archiving since the profiler
// may still be producing data next to finished recordings. Any failure
// aborts the collection; partial archive output is not rolled back and the
// caller must discard it.
func (c *Collector) Collect(out io.Writer) error {
	dir := c.dataDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read recording dir %s: %w", dir, err)
	}

	w := archive.NewWriter(out)
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, constants.TempFilePrefix) {
			c.Log.Debug().Str("file", name).Msg("skipping temporary file")
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			c.Log.Debug().Str("file", name).Msg("skipping non-regular entry")
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		err = w.AddFile(name, f)
		f.Close()
		if err != nil {
			return err
		}
		c.Log.Debug().Str("file", name).Int64("size", info.Size()).Msg("archived recording file")
	}
	return w.Close()
}

// Remove recursively deletes the recording directory. The delete runs as a
// subprocess so it works against the same view of the filesystem the
// profiler used.
func (c *Collector) Remove() error {
	if err := c.Runner.Run("rm", "-rf", c.dataDir()); err != nil {
		return fmt.Errorf("failed to remove recording dir %s: %w", c.dataDir(), err)
	}
	return nil
}
