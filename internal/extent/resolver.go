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

// Package extent resolves how far a carved file extends past its header
// hit: trailer search, header-derived length, or a capped fallback, with
// an optional per-format precise pass layered on top.
package extent

import (
	"errors"

	"github.com/arcflux/diskcarve/internal/bytesutil"
	"github.com/arcflux/diskcarve/internal/sigscan"
)

// ErrEmptyExtent is returned when the resolved end would not exceed start,
// which clamping should make unreachable for any in-bounds hit.
var ErrEmptyExtent = errors.New("extent: resolved end <= start")

// Extent is a half-open byte range [Start, End) believed to contain one
// carved file.
type Extent struct {
	Start uint64
	End   uint64
}

const (
	pdfHeaderCap = 1 << 20     // 1 MiB, per the PDF header-length heuristic.
	zipHeaderCap = 5 << 20     // 5 MiB, per the ZIP-family header-length heuristic.
)

// Resolve computes the extent for a hit against buf, per the mandatory
// trailer-search / header-length / capped-fallback algorithm. When a
// format-specific precise parser exists and succeeds on this hit, its
// result is preferred (it is always at least as accurate, and per design
// is allowed to override steps 2 and 3 below); on any precise-parse
// failure the baseline numbers are used unchanged, so the baseline's
// invariants hold as a floor regardless of what the precise pass does.
func Resolve(buf []byte, hit sigscan.Hit, maxFileSize int) (Extent, error) {
	start := int(hit.Offset)

	if end, ok := precise(buf, hit, start); ok && end-start <= maxFileSize {
		return clamp(start, end, buf)
	}

	var end int
	if hit.Signature.HasTrailer {
		end = trailerSearch(buf, start, hit.Signature.TrailerMagic, maxFileSize)
	} else {
		end = headerLengthHeuristic(buf, start, maxFileSize)
	}
	return clamp(start, end, buf)
}

func trailerSearch(buf []byte, start int, trailer []byte, maxFileSize int) int {
	searchLimit := start + maxFileSize
	if searchLimit > len(buf) {
		searchLimit = len(buf)
	}

	i, err := bytesutil.FindSubsequence(buf[:searchLimit], trailer, start)
	if err != nil {
		return searchLimit
	}
	return i + len(trailer)
}

func headerLengthHeuristic(buf []byte, start, maxFileSize int) int {
	switch {
	case bytesutil.HasPrefixAt(buf, []byte{0x25, 0x50, 0x44, 0x46}, start):
		return start + pdfHeaderCap
	case bytesutil.HasPrefixAt(buf, []byte{0x50, 0x4B, 0x03, 0x04}, start):
		return start + zipHeaderCap
	default:
		return start + maxFileSize
	}
}

func clamp(start, end int, buf []byte) (Extent, error) {
	if end > len(buf) {
		end = len(buf)
	}
	if end <= start {
		return Extent{}, ErrEmptyExtent
	}
	return Extent{Start: uint64(start), End: uint64(end)}, nil
}

// precise dispatches to a format-specific exact-length parser, returning
// the true end offset (buffer-relative, exclusive) when one exists and
// succeeds for this hit's extension.
func precise(buf []byte, hit sigscan.Hit, start int) (int, bool) {
	switch hit.Signature.Extension {
	case "jpg":
		return preciseJPEG(buf, start)
	case "png":
		return precisePNG(buf, start)
	case "pdf":
		return precisePDF(buf, start)
	case "zip", "docx", "xlsx", "pptx":
		return preciseZIP(buf, start)
	case "mp3":
		return preciseMP3(buf, start)
	case "bmp":
		return preciseBMP(buf, start)
	case "wav":
		return preciseWAV(buf, start)
	default:
		return 0, false
	}
}
