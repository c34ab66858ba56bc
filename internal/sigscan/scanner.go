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
package sigscan

import "github.com/arcflux/diskcarve/pkg/table"

// Hit is a confirmed occurrence of a signature's header magic at a
// specific offset in a scanned buffer.
type Hit struct {
	Offset    uint64
	Signature Signature
}

// Registry indexes a catalog's signatures by header-magic prefix using
// the shared prefix table, so Scan walks each buffer position once
// regardless of how many signatures are loaded.
type Registry struct {
	table *table.PrefixTable[[]Signature]
}

// NewRegistry builds a Registry over the given signatures, grouping
// entries that share an identical header magic (the zip/docx/xlsx/pptx
// family) under one prefix-table slot.
func NewRegistry(sigs []Signature) *Registry {
	r := &Registry{table: table.New[[]Signature]()}
	for _, sig := range sigs {
		existing, _ := r.table.Get(sig.HeaderMagic)
		r.table.Insert(sig.HeaderMagic, append(existing, sig))
	}
	return r
}

// Scan walks buf and emits one Hit per (offset, signature) occurrence of
// every loaded header magic, in ascending offset order overall, and
// strictly ascending order within any one signature. An empty buffer
// yields an empty, non-nil-safe result.
func (r *Registry) Scan(buf []byte) []Hit {
	var hits []Hit
	for off := 0; off < len(buf); off++ {
		r.table.Walk(buf[off:], func(sigs []Signature) bool {
			for _, sig := range sigs {
				hits = append(hits, Hit{Offset: uint64(off), Signature: sig})
			}
			return false
		})
	}
	return hits
}
