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

// Package report categorises recovered files into an output tree,
// maintains the append-only plain-text recovery log, and writes the
// DFXML counterpart report alongside it.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arcflux/diskcarve/internal/rebuild"
	fmtutil "github.com/arcflux/diskcarve/pkg/util/format"
)

// Category is one of the six fixed output subdirectories.
type Category string

const (
	Images    Category = "images"
	Documents Category = "documents"
	Audio     Category = "audio"
	Video     Category = "videos"
	Archives  Category = "archives"
	Others    Category = "others"
)

var categoryDirs = []Category{Images, Documents, Audio, Video, Archives, Others}

var extToCategory = map[string]Category{
	"jpg": Images, "jpeg": Images, "png": Images, "gif": Images, "bmp": Images, "ico": Images,
	"pdf": Documents, "docx": Documents, "xlsx": Documents, "pptx": Documents,
	"mp3": Audio, "wav": Audio, "ogg": Audio, "flac": Audio,
	"mp4": Video, "avi": Video, "mkv": Video, "mov": Video,
	"zip": Archives, "rar": Archives, "gz": Archives, "tar": Archives,
}

// CategoryFor classifies a file extension per §4.8's fixed table,
// falling back to Others for anything not listed.
func CategoryFor(ext string) Category {
	if c, ok := extToCategory[ext]; ok {
		return c
	}
	return Others
}

// Manager owns the base output directory, the plain-text recovery
// log, and running per-category totals.
type Manager struct {
	baseDir  string
	logFile  *os.File
	counts   map[Category]int
	catBytes map[Category]uint64
}

// Setup creates baseDir and its six category subdirectories if
// absent, then opens recovery_log.txt in truncate-write mode and
// writes the report header.
func Setup(baseDir string) (*Manager, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("report: create base dir %q: %w", baseDir, err)
	}
	for _, c := range categoryDirs {
		if err := os.MkdirAll(filepath.Join(baseDir, string(c)), 0o755); err != nil {
			return nil, fmt.Errorf("report: create category dir %q: %w", c, err)
		}
	}

	logPath := filepath.Join(baseDir, "recovery_log.txt")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("report: open %q: %w", logPath, err)
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		abs = baseDir
	}
	header := fmt.Sprintf("=== FILE RECOVERY REPORT ===\nGenerated: %s\nBase directory: %s\n\n",
		time.Now().Format(time.RFC3339), abs)
	if _, err := f.WriteString(header); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return nil, err
	}

	return &Manager{
		baseDir:  baseDir,
		logFile:  f,
		counts:   make(map[Category]int),
		catBytes: make(map[Category]uint64),
	}, nil
}

// Register appends one log line for a recovered file and flushes
// immediately, so a crash mid-run leaves the log reflecting every
// file fully written and none partially.
func (m *Manager) Register(f rebuild.RecoveredFile) error {
	cat := CategoryFor(f.Extension)
	m.counts[cat]++
	m.catBytes[cat] += f.Size

	line := fmt.Sprintf("%s | %s | %s | %s | %s\n",
		f.Name, f.Extension, fmtutil.FormatBytes(int64(f.Size)),
		f.RecoveredAt.Format(time.RFC3339), f.Path)

	if _, err := m.logFile.WriteString(line); err != nil {
		return fmt.Errorf("report: write log entry for %q: %w", f.Name, err)
	}
	return m.logFile.Sync()
}

// CategoryPath returns the subdirectory (baseDir joined with the category
// name) a file of the given extension should be written into.
func (m *Manager) CategoryPath(ext string) string {
	return filepath.Join(m.baseDir, string(CategoryFor(ext)))
}

// Summary counts per category and total recovered bytes.
type Summary struct {
	Counts     map[Category]int
	TotalBytes uint64
	TotalFiles int
}

func (m *Manager) Summary() Summary {
	s := Summary{Counts: make(map[Category]int, len(m.counts))}
	for cat, n := range m.counts {
		s.Counts[cat] = n
		s.TotalFiles += n
	}
	for _, b := range m.catBytes {
		s.TotalBytes += b
	}
	return s
}

// Print writes a human-readable summary to w, in the same per-category
// counts-then-total shape the retrieved tool's own CLI output used.
func (m *Manager) Print(w *os.File) {
	s := m.Summary()
	fmt.Fprintf(w, "[INFO] Files found: \t%d\n", s.TotalFiles)
	for _, c := range categoryDirs {
		if n := s.Counts[c]; n > 0 {
			fmt.Fprintf(w, "[INFO]   %-10s\t%d\n", c, n)
		}
	}
	fmt.Fprintf(w, "[INFO] Total data: \t%s\n", fmtutil.FormatBytes(int64(s.TotalBytes)))
}

// Close flushes and closes the recovery log.
func (m *Manager) Close() error {
	return m.logFile.Close()
}
