// Package logfile provides a size-capped append-only log file.
package logfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const (
	// DefaultMaxBytes is the size at which the file is cut back.
	DefaultMaxBytes = 6 * 1024 * 1024
	// DefaultKeepBytes is how much of the tail survives a cut.
	DefaultKeepBytes = 5 * 1024 * 1024
)

// Writer appends to a file and keeps only its most recent bytes once it
// grows past MaxBytes. It is safe for concurrent use.
type Writer struct {
	mu        sync.Mutex
	file      *os.File
	maxBytes  int64
	keepBytes int64
}

// Open creates or appends to path, creating parent directories as needed.
func Open(path string) (*Writer, error) {
	return OpenSize(path, DefaultMaxBytes, DefaultKeepBytes)
}

// OpenSize is Open with explicit limits. keepBytes must not exceed maxBytes.
func OpenSize(path string, maxBytes, keepBytes int64) (*Writer, error) {
	if keepBytes > maxBytes {
		return nil, errors.New("logfile: keep size exceeds max size")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	w := &Writer{file: file, maxBytes: maxBytes, keepBytes: keepBytes}
	if err := w.truncateIfNeeded(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return w, nil
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *Writer) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= w.maxBytes {
		return nil
	}

	buf := make([]byte, w.keepBytes)
	if _, err := w.file.Seek(size-w.keepBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := io.ReadFull(w.file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
