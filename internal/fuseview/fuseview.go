//go:build linux
// +build linux

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

// Package fuseview serves the files named by a DFXML report read-only
// over FUSE, reading their bytes directly from the source image at
// the recorded extents rather than from copies on disk.
package fuseview

import (
	"context"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// Entry names one recovered file's extent in the source image.
type Entry struct {
	Name   string
	Offset uint64
	Size   uint64
}

// RecoverFS is a flat, read-only filesystem: one directory holding
// every recovered file named in a report.
type RecoverFS struct {
	r io.ReaderAt

	mtx     sync.RWMutex
	entries map[string]Entry
}

func New(r io.ReaderAt, entries []Entry) *RecoverFS {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return &RecoverFS{r: r, entries: m}
}

func (rfs *RecoverFS) Root() (fs.Node, error) {
	return &dir{fs: rfs}, nil
}

type dir struct {
	fs *RecoverFS
}

func (*dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	return nil
}

func (d *dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	d.fs.mtx.RLock()
	e, ok := d.fs.entries[name]
	d.fs.mtx.RUnlock()
	if !ok {
		return nil, fuse.ENOENT
	}
	return file{r: io.NewSectionReader(d.fs.r, int64(e.Offset), int64(e.Size)), size: e.Size}, nil
}

func (d dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	d.fs.mtx.RLock()
	defer d.fs.mtx.RUnlock()

	dirEntries := make([]fuse.Dirent, 0, len(d.fs.entries))
	for _, e := range d.fs.entries {
		dirEntries = append(dirEntries, fuse.Dirent{Name: e.Name, Type: fuse.DT_File})
	}
	sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name < dirEntries[j].Name })
	for i := range dirEntries {
		dirEntries[i].Inode = uint64(i + 1)
	}
	return dirEntries, nil
}

// file implements fs.Node and fs.HandleReader over a read-only section
// of the source image.
type file struct {
	r    io.ReaderAt
	size uint64
}

func (f file) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = 0444
	a.Size = f.size
	a.Mtime = time.Now()
	return nil
}

func (f file) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	size := int(req.Size)
	offset := req.Offset

	if offset >= int64(f.size) {
		resp.Data = []byte{}
		return nil
	}
	if offset+int64(size) > int64(f.size) {
		size = int(int64(f.size) - offset)
	}

	buf := make([]byte, size)
	n, err := f.r.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return err
	}
	resp.Data = buf[:n]
	return nil
}
