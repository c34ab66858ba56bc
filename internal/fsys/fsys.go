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

// Package fsys recognises a boot sector as FAT32 or NTFS and performs
// best-effort enumeration of its file entries without mounting the
// volume, the same structural-recognition role the retrieved carving
// tool's internal/disk package played for FAT.
package fsys

// FileSystem identifies what a boot sector looks like.
type FileSystem int

const (
	Unknown FileSystem = iota
	FAT32
	NTFS
)

func (fs FileSystem) String() string {
	switch fs {
	case FAT32:
		return "FAT32"
	case NTFS:
		return "NTFS"
	default:
		return "UNKNOWN"
	}
}

// FileEntry is a directory/MFT entry surfaced by best-effort analysis.
// It is produced for display only and is never itself persisted as a
// recovered file.
type FileEntry struct {
	Name             string
	Size             uint64
	CreationTime     string
	ModificationTime string
	Deleted          bool
}

// Detect classifies the first 512 bytes of a volume as FAT32, NTFS, or
// Unknown, per the same fixed-offset signature checks the retrieved
// tool used when recognising a boot sector.
func Detect(bootSector []byte) FileSystem {
	if len(bootSector) < 0x57 {
		return Unknown
	}
	if string(bootSector[0x52:0x57]) == "FAT32" {
		return FAT32
	}
	if len(bootSector) >= 0x07 && string(bootSector[0x03:0x07]) == "NTFS" {
		return NTFS
	}
	return Unknown
}
