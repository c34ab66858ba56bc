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

// Package metadata extracts format-specific, best-effort metadata from
// a carved file's byte slice, dispatched by extension.
package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/arcflux/diskcarve/internal/extent"
)

// Metadata is an ordered-insensitive string mapping; missing optional
// fields are simply absent rather than present with empty values.
type Metadata map[string]string

// Extract dispatches to the format-specific extractor for ext, or
// returns an empty Metadata for formats with no extractor defined.
func Extract(buf []byte, ext string) Metadata {
	switch ext {
	case "jpg", "jpeg":
		return extractJPEG(buf)
	case "png":
		return extractPNG(buf)
	case "pdf":
		return extractPDF(buf)
	case "mp3":
		return extractMP3(buf)
	case "docx", "xlsx", "pptx":
		m := Metadata{"Format": "ZIP-Based Document"}
		m["Inferred_Type"] = extent.ClassifyZIP(buf, 0, len(buf))
		return m
	default:
		return Metadata{}
	}
}

func extractJPEG(buf []byte) Metadata {
	m := Metadata{"Format": "JPEG"}
	if bytes.Contains(buf, []byte{0xFF, 0xE1}) {
		m["Has_EXIF"] = "Yes"
	} else {
		m["Has_EXIF"] = "No"
	}
	return m
}

func extractPNG(buf []byte) Metadata {
	m := Metadata{"Format": "PNG"}
	i := 8
	for i+8 <= len(buf) {
		length := int(binary.BigEndian.Uint32(buf[i : i+4]))
		chunkType := string(buf[i+4 : i+8])
		dataStart := i + 8
		dataEnd := dataStart + length
		if dataEnd > len(buf) {
			break
		}

		if chunkType == "tEXt" {
			data := buf[dataStart:dataEnd]
			if nul := bytes.IndexByte(data, 0); nul >= 0 {
				m[string(data[:nul])] = string(data[nul+1:])
			}
		}
		if chunkType == "IEND" {
			break
		}
		i = dataEnd + 4
	}
	return m
}

const pdfScanWindow = 64 * 1024

func extractPDF(buf []byte) Metadata {
	m := Metadata{"Format": "PDF"}
	if len(buf) >= 8 {
		m["Version"] = string(buf[:8])
	}

	limit := len(buf)
	if limit > pdfScanWindow {
		limit = pdfScanWindow
	}
	window := buf[:limit]

	if creator, ok := parenLiteralAfter(window, "/Creator"); ok {
		m["Creator"] = creator
	}
	if author, ok := parenLiteralAfter(window, "/Author"); ok {
		m["Author"] = author
	}
	return m
}

// parenLiteralAfter returns the text between the first "(" and the
// first ")" following marker, with no escape handling (spec v1).
func parenLiteralAfter(buf []byte, marker string) (string, bool) {
	idx := bytes.Index(buf, []byte(marker))
	if idx < 0 {
		return "", false
	}
	rest := buf[idx+len(marker):]
	open := bytes.IndexByte(rest, '(')
	if open < 0 {
		return "", false
	}
	closeIdx := bytes.IndexByte(rest[open:], ')')
	if closeIdx < 0 {
		return "", false
	}
	return string(rest[open+1 : open+closeIdx]), true
}

func extractMP3(buf []byte) Metadata {
	m := Metadata{"Format": "MP3"}

	if len(buf) >= 5 && string(buf[:3]) == "ID3" {
		m["Has_ID3"] = "Yes"
		m["Version"] = fmt.Sprintf("%d.%d", buf[3], buf[4])
	}

	if len(buf) >= 128 {
		tail := buf[len(buf)-128:]
		if string(tail[:3]) == "TAG" {
			m["Title"] = trimTag(tail[3:33])
			m["Artist"] = trimTag(tail[33:63])
			m["Album"] = trimTag(tail[63:93])
			m["Year"] = trimTag(tail[93:97])
		}
	}
	return m
}

func trimTag(b []byte) string {
	if nul := bytes.IndexByte(b, 0); nul >= 0 {
		b = b[:nul]
	}
	return string(bytes.TrimRight(b, " "))
}
