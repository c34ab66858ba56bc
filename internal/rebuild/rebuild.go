// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package rebuild persists a carved byte extent to disk under a unique,
// collision-free filename and reports back what was written.
package rebuild

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"
)

// RecoveredFile describes one file written to the output directory.
type RecoveredFile struct {
	Name        string
	Extension   string
	Path        string
	Size        uint64
	RecoveredAt time.Time
	SourceStart uint64
	SourceEnd   uint64
}

// Rebuilder owns the output directory and the counter that makes
// recovered_NNNNN.ext names unique across a single run, the same
// naming scheme the retrieved tool's own file rebuilder used.
type Rebuilder struct {
	outDir  string
	counter atomic.Uint64
}

// New creates a Rebuilder rooted at outDir, creating the directory
// (and any missing parents) if it does not already exist.
func New(outDir string) (*Rebuilder, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("rebuild: create output dir %q: %w", outDir, err)
	}
	return &Rebuilder{outDir: outDir}, nil
}

// nextName returns the next recovered_NNNNN.ext filename without
// creating the file, so callers can log the name before writing.
func (rb *Rebuilder) nextName(ext string) string {
	n := rb.counter.Add(1)
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("recovered_%05d.%s", n, ext)
}

// Describe reserves the next unique name and reports what Persist
// would have written, without touching the filesystem. Used by the
// CLI's --dump=false dry-run mode, where the recovery log and DFXML
// report are still produced but no carved bytes are written.
func (rb *Rebuilder) Describe(start, end uint64, ext string) (RecoveredFile, error) {
	if end <= start {
		return RecoveredFile{}, fmt.Errorf("rebuild: invalid extent [%d,%d)", start, end)
	}
	name := rb.nextName(ext)
	return RecoveredFile{
		Name:        name,
		Extension:   ext,
		Path:        filepath.Join(rb.outDir, name),
		Size:        end - start,
		RecoveredAt: time.Now(),
		SourceStart: start,
		SourceEnd:   end,
	}, nil
}

// Persist writes buf[start:end] to a new file in the output directory,
// buffering the write and renaming into place only after a full,
// successful flush so a crash mid-write never leaves a half-written
// file under its final name.
func (rb *Rebuilder) Persist(buf []byte, start, end uint64, ext string) (RecoveredFile, error) {
	if end <= start || end > uint64(len(buf)) {
		return RecoveredFile{}, fmt.Errorf("rebuild: invalid extent [%d,%d) over %d-byte buffer", start, end, len(buf))
	}

	name := rb.nextName(ext)
	finalPath := filepath.Join(rb.outDir, name)
	tmpPath := finalPath + ".part"

	if err := writeAtomic(tmpPath, finalPath, buf[start:end]); err != nil {
		return RecoveredFile{}, err
	}

	return RecoveredFile{
		Name:        name,
		Extension:   ext,
		Path:        finalPath,
		Size:        end - start,
		RecoveredAt: time.Now(),
		SourceStart: start,
		SourceEnd:   end,
	}, nil
}

func writeAtomic(tmpPath, finalPath string, data []byte) error {
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("rebuild: create %q: %w", tmpPath, err)
	}

	w := bufio.NewWriterSize(f, 1<<20)
	if _, err := w.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("rebuild: write %q: %w", tmpPath, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("rebuild: flush %q: %w", tmpPath, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("rebuild: sync %q: %w", tmpPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rebuild: close %q: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rebuild: rename %q to %q: %w", tmpPath, finalPath, err)
	}
	return nil
}
