// Package archive writes recording files into a zip stream.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/flate"
	"golang.org/x/sys/unix"
)

// copyBufferSize is the read chunk for streaming entries.
const copyBufferSize = 64 * 1024

// Writer streams files into a zip archive written to an underlying stream.
// It is not safe for concurrent use; entries are written one at a time.
type Writer struct {
	zw  *zip.Writer
	buf []byte
}

// NewWriter returns a Writer targeting w. Entries are Deflate-compressed;
// recording data is written once and pulled off-device, so the compressor is
// tuned for speed over ratio.
func NewWriter(w io.Writer) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})
	return &Writer{
		zw:  zw,
		buf: make([]byte, copyBufferSize),
	}
}

// AddFile streams the contents of f into a new compressed entry. Reads go
// through the raw descriptor and are retried on EINTR so a signal delivered
// mid-collection does not abort the archive.
func (w *Writer) AddFile(name string, f *os.File) error {
	entry, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to start zip entry %s: %w", name, err)
	}
	fd := int(f.Fd())
	for {
		n, err := readRetry(fd, w.buf)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.Name(), err)
		}
		if n == 0 {
			break
		}
		if _, err := entry.Write(w.buf[:n]); err != nil {
			return fmt.Errorf("failed to write zip entry %s: %w", name, err)
		}
	}
	return nil
}

// Close flushes the central directory and finalizes the archive. It does not
// close the underlying stream.
func (w *Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("failed to finish zip archive: %w", err)
	}
	return nil
}

// readRetry reads into buf from fd, retrying when interrupted by a signal.
func readRetry(fd int, buf []byte) (int, error) {
	for {
		n, err := unix.Read(fd, buf)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		return n, nil
	}
}
