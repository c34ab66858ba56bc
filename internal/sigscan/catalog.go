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

// Package sigscan holds the signature catalog and walks a byte buffer
// producing every header hit, in the order the catalog's own algorithm
// discovers them.
package sigscan

// Signature describes one recognisable file format: its header magic,
// extension tag, and optional trailer magic.
type Signature struct {
	Extension    string
	Description  string
	HeaderMagic  []byte
	HasTrailer   bool
	TrailerMagic []byte
}

// DefaultCatalog is the 15-entry signature table (twelve header magics,
// the shared ZIP magic appearing once per ZIP-family type). Four entries
// (zip, docx, xlsx, pptx) deliberately share the same header magic; all
// four must still be emitted as separate Hits by Scan (see §4.3/§4.4 of
// the design: overlap collapsing, if any, is strictly a downstream
// reporting policy, never a scanner-level filter).
var DefaultCatalog = []Signature{
	{Extension: "jpg", Description: "JPEG image", HeaderMagic: []byte{0xFF, 0xD8, 0xFF}, HasTrailer: true, TrailerMagic: []byte{0xFF, 0xD9}},
	{Extension: "png", Description: "PNG image", HeaderMagic: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, HasTrailer: true, TrailerMagic: []byte{0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82}},
	{Extension: "gif", Description: "GIF image", HeaderMagic: []byte{0x47, 0x49, 0x46, 0x38}},
	{Extension: "bmp", Description: "Windows bitmap", HeaderMagic: []byte{0x42, 0x4D}},
	{Extension: "ico", Description: "Windows icon", HeaderMagic: []byte{0x00, 0x00, 0x01, 0x00}},
	{Extension: "pdf", Description: "PDF document", HeaderMagic: []byte{0x25, 0x50, 0x44, 0x46}},
	{Extension: "zip", Description: "ZIP archive", HeaderMagic: []byte{0x50, 0x4B, 0x03, 0x04}, HasTrailer: true, TrailerMagic: []byte{0x50, 0x4B, 0x05, 0x06}},
	{Extension: "docx", Description: "Word document (ZIP-based)", HeaderMagic: []byte{0x50, 0x4B, 0x03, 0x04}, HasTrailer: true, TrailerMagic: []byte{0x50, 0x4B, 0x05, 0x06}},
	{Extension: "xlsx", Description: "Excel workbook (ZIP-based)", HeaderMagic: []byte{0x50, 0x4B, 0x03, 0x04}, HasTrailer: true, TrailerMagic: []byte{0x50, 0x4B, 0x05, 0x06}},
	{Extension: "pptx", Description: "PowerPoint deck (ZIP-based)", HeaderMagic: []byte{0x50, 0x4B, 0x03, 0x04}, HasTrailer: true, TrailerMagic: []byte{0x50, 0x4B, 0x05, 0x06}},
	{Extension: "mp4", Description: "MP4 container", HeaderMagic: []byte{0x00, 0x00, 0x00, 0x18}, HasTrailer: true, TrailerMagic: []byte{0x66, 0x72, 0x65, 0x65}},
	{Extension: "avi", Description: "AVI video", HeaderMagic: []byte{0x52, 0x49, 0x46, 0x46}},
	{Extension: "mp3", Description: "MP3 audio", HeaderMagic: []byte{0xFF, 0xFB}},
	{Extension: "wav", Description: "WAV audio", HeaderMagic: []byte{0x52, 0x49, 0x46, 0x46}, HasTrailer: true, TrailerMagic: []byte{0x57, 0x41, 0x56, 0x45}},
	{Extension: "gz", Description: "gzip archive", HeaderMagic: []byte{0x1F, 0x8B, 0x08}},
}

// ByExtension returns the subset of DefaultCatalog matching the given
// extensions, preserving catalog order. An unknown extension is an error.
func ByExtension(ext ...string) ([]Signature, error) {
	if len(ext) == 0 {
		return DefaultCatalog, nil
	}

	want := make(map[string]bool, len(ext))
	for _, e := range ext {
		want[e] = true
	}

	var out []Signature
	for _, sig := range DefaultCatalog {
		if want[sig.Extension] {
			out = append(out, sig)
		}
	}
	if len(out) != len(want) {
		return nil, &UnknownExtensionError{Requested: ext}
	}
	return out, nil
}

// UnknownExtensionError is returned by ByExtension when the requested
// extension list contains a tag absent from the catalog.
type UnknownExtensionError struct {
	Requested []string
}

func (e *UnknownExtensionError) Error() string {
	return "sigscan: one or more unknown extensions requested: " + joinStrings(e.Requested)
}

func joinStrings(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
