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

// Package bytesutil provides bounds-checked readers over a contiguous byte
// buffer. Every other carving component reads multi-byte values exclusively
// through this package; no component should cast into a buffer directly.
package bytesutil

import "errors"

// ErrOutOfBounds is returned whenever a read would reach past the end of
// the supplied buffer. It is a value, never a panic.
var ErrOutOfBounds = errors.New("bytesutil: out of bounds")

// ErrNotFound is returned by FindSubsequence when the pattern does not
// occur in the buffer at or after start.
var ErrNotFound = errors.New("bytesutil: subsequence not found")

func checkBounds(buf []byte, off, width int) error {
	if off < 0 || width < 0 || off+width > len(buf) {
		return ErrOutOfBounds
	}
	return nil
}

// ReadU16LE reads a little-endian uint16 at off.
func ReadU16LE(buf []byte, off int) (uint16, error) {
	if err := checkBounds(buf, off, 2); err != nil {
		return 0, err
	}
	return uint16(buf[off]) | uint16(buf[off+1])<<8, nil
}

// ReadU32LE reads a little-endian uint32 at off.
func ReadU32LE(buf []byte, off int) (uint32, error) {
	if err := checkBounds(buf, off, 4); err != nil {
		return 0, err
	}
	return uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24, nil
}

// ReadU64LE reads a little-endian uint64 at off.
func ReadU64LE(buf []byte, off int) (uint64, error) {
	if err := checkBounds(buf, off, 8); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(buf[off+i]) << (8 * i)
	}
	return v, nil
}

// ReadU32BE reads a big-endian uint32 at off.
func ReadU32BE(buf []byte, off int) (uint32, error) {
	if err := checkBounds(buf, off, 4); err != nil {
		return 0, err
	}
	return uint32(buf[off])<<24 | uint32(buf[off+1])<<16 | uint32(buf[off+2])<<8 | uint32(buf[off+3]), nil
}

// ReadByte reads a single byte at off.
func ReadByte(buf []byte, off int) (byte, error) {
	if err := checkBounds(buf, off, 1); err != nil {
		return 0, err
	}
	return buf[off], nil
}

// ReadString returns the ASCII/Latin-1 byte sequence buf[off:off+maxLen],
// truncated at the first NUL byte. It never reads past len(buf); a maxLen
// that would overrun the buffer is silently clamped to what remains.
func ReadString(buf []byte, off, maxLen int) (string, error) {
	if off < 0 || off > len(buf) {
		return "", ErrOutOfBounds
	}
	end := off + maxLen
	if end > len(buf) {
		end = len(buf)
	}
	window := buf[off:end]
	if i := indexByte(window, 0x00); i >= 0 {
		window = window[:i]
	}
	return string(window), nil
}

// ReadNulTerminated returns the maximal prefix of buf starting at off that
// contains no NUL byte, bounded by len(buf).
func ReadNulTerminated(buf []byte, off int) (string, error) {
	if off < 0 || off > len(buf) {
		return "", ErrOutOfBounds
	}
	window := buf[off:]
	if i := indexByte(window, 0x00); i >= 0 {
		window = window[:i]
	}
	return string(window), nil
}

// FindSubsequence returns the lowest index i >= start such that
// buf[i:i+len(pattern)] == pattern. A naive scan is sufficient: the
// signature catalog's pattern count is small and patterns are short.
// An empty pattern always yields ErrNotFound.
func FindSubsequence(buf, pattern []byte, start int) (int, error) {
	if len(pattern) == 0 || start < 0 {
		return 0, ErrNotFound
	}
	for i := start; i+len(pattern) <= len(buf); i++ {
		if matches(buf, pattern, i) {
			return i, nil
		}
	}
	return 0, ErrNotFound
}

func matches(buf, pattern []byte, at int) bool {
	for j, b := range pattern {
		if buf[at+j] != b {
			return false
		}
	}
	return true
}

func indexByte(buf []byte, b byte) int {
	for i, c := range buf {
		if c == b {
			return i
		}
	}
	return -1
}

// HasPrefixAt reports whether buf[off:off+len(prefix)] == prefix without
// allocating, returning false (not an error) on short buffers.
func HasPrefixAt(buf, prefix []byte, off int) bool {
	if off < 0 || off+len(prefix) > len(buf) {
		return false
	}
	return matches(buf, prefix, off)
}
