package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TailWriter appends log output to a file and keeps only its most recent lines.
//
// Lines are mirrored into a fixed-size window. Once twice the window size has
// been written since the last compaction, the file is rewritten with the
// window contents so it never grows beyond roughly 2x maxLines.
type TailWriter struct {
	mu       sync.Mutex
	path     string
	file     *os.File
	window   []string
	next     int
	filled   bool
	written  int
	maxLines int
}

// NewTailWriter opens path for appending and keeps at most maxLines lines.
func NewTailWriter(path string, maxLines int) (*TailWriter, error) {
	if maxLines <= 0 {
		maxLines = 1
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	return &TailWriter{
		path:     path,
		file:     file,
		window:   make([]string, maxLines),
		maxLines: maxLines,
	}, nil
}

// Write implements io.Writer.
func (w *TailWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}

	for line := range bytes.SplitSeq(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if len(line) == 0 {
			continue
		}

		w.remember(string(line))

		if w.written >= w.maxLines*2 {
			if err := w.compact(); err != nil {
				return n, fmt.Errorf("failed to compact log file: %w", err)
			}
		}
	}

	return n, nil
}

// Sync flushes the underlying file.
func (w *TailWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Sync()
}

// Close closes the underlying file.
func (w *TailWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Close()
}

// Lines returns the remembered lines, oldest first.
func (w *TailWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.lines()
}

func (w *TailWriter) remember(line string) {
	w.window[w.next] = line
	w.next = (w.next + 1) % w.maxLines
	if w.next == 0 {
		w.filled = true
	}
	w.written++
}

func (w *TailWriter) lines() []string {
	if !w.filled {
		return append([]string(nil), w.window[:w.next]...)
	}

	return append(append([]string(nil), w.window[w.next:]...), w.window[:w.next]...)
}

// compact atomically replaces the file with the remembered lines.
func (w *TailWriter) compact() error {
	var buf bytes.Buffer
	for _, line := range w.lines() {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	temp, err := os.CreateTemp(filepath.Dir(w.path), "temp-log-")
	if err != nil {
		return err
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		temp.Close()
		os.Remove(tempPath)
		return err
	}

	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	w.file.Close()

	if err := os.Rename(tempPath, w.path); err != nil {
		return err
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w.file = file
	w.written = len(w.lines())

	return nil
}
