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

// Package diskio opens a block device or disk image and reads raw bytes at
// an absolute offset, hiding the POSIX/Windows split behind a single
// platform file handle.
package diskio

import (
	"errors"
	"fmt"
	"io"
)

// DefaultSectorSize is assumed for regular image files, and as a fallback
// when a device's real sector size cannot be probed.
const DefaultSectorSize = 512

// ErrShortRead is returned when the underlying device/file returned fewer
// bytes than requested. The pipeline treats it as a failure, except when
// the partition's size was unknown in advance and some bytes were read:
// then the partial window is used as the end of the device.
var ErrShortRead = errors.New("diskio: short read")

// Info describes the opened source, populated at Open and immutable
// afterwards except for Size, which is filled in by a best-effort probe.
type Info struct {
	DevicePath string
	SectorSize int64
	Size       int64 // 0 until DetectSize succeeds
	IsDevice   bool
}

// platformFile is the thin seam between POSIX and Windows raw I/O,
// implemented by reader_unix.go / reader_windows.go.
type platformFile interface {
	io.Closer
	ReadAt(p []byte, off int64) (int, error)
	sectorSize() (int64, error)
	totalSize() (int64, bool)
}

// Reader is the device/image reader capability the carving core depends
// on. It never knows whether it is backed by a block device or a flat
// image file.
type Reader struct {
	info Info
	file platformFile
}

// Open opens path read-only (POSIX) or with shared read/write (Windows, so
// the device is not exclusively locked) and probes its sector size and
// total size on a best-effort basis.
func Open(path string) (*Reader, error) {
	f, isDevice, err := openPlatform(path)
	if err != nil {
		return nil, fmt.Errorf("diskio: open %s: %w", path, err)
	}

	r := &Reader{
		info: Info{
			DevicePath: path,
			SectorSize: DefaultSectorSize,
			IsDevice:   isDevice,
		},
		file: f,
	}

	if sz, err := f.sectorSize(); err == nil && sz > 0 {
		r.info.SectorSize = sz
	}
	r.DetectSize()

	return r, nil
}

// Info returns a snapshot of the reader's metadata.
func (r *Reader) Info() Info {
	return r.info
}

// DetectSize populates Info.Size on a best-effort basis; failure is not
// fatal to the pipeline; the caller simply keeps Size == 0 and falls back
// to requesting whatever window size it was configured with.
func (r *Reader) DetectSize() bool {
	if sz, ok := r.file.totalSize(); ok && sz > 0 {
		r.info.Size = sz
		return true
	}
	return false
}

// ReadBytes reads exactly size bytes at offset. Fewer bytes read is a hard
// ErrShortRead, except when the caller already knows the source is
// shorter than the requested window (see the window clamping in the
// pipeline package's scanPartition) in which
// case it should request a clamped size instead of relying on this to
// tolerate truncation. On a short read the bytes actually read are still
// returned alongside ErrShortRead, so a caller that requested a window of
// unknown-in-advance size can treat the short read as end-of-device and
// use the partial buffer instead of failing outright.
func (r *Reader) ReadBytes(offset int64, size int) ([]byte, error) {
	buf := make([]byte, size)
	n, err := r.file.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("diskio: read %d bytes at %d: %w", size, offset, err)
	}
	if n != size {
		return buf[:n], fmt.Errorf("%w: requested %d, got %d", ErrShortRead, size, n)
	}
	return buf, nil
}

// ReadSector reads one sector at logical sector number n.
func (r *Reader) ReadSector(n int64) ([]byte, error) {
	return r.ReadBytes(n*r.info.SectorSize, int(r.info.SectorSize))
}

// ReadSectors reads count sectors starting at logical sector number start.
func (r *Reader) ReadSectors(start int64, count int) ([]byte, error) {
	return r.ReadBytes(start*r.info.SectorSize, count*int(r.info.SectorSize))
}

// Close releases the underlying platform handle.
func (r *Reader) Close() error {
	return r.file.Close()
}

var _ io.Closer = (*Reader)(nil)
