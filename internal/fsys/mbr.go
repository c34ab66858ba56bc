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
package fsys

import (
	"encoding/binary"
	"errors"
)

// DefaultBlockSize is the sector size assumed when a partition's own
// BPB does not provide one.
const DefaultBlockSize = 512

// ErrInvalidMBR names the condition of a sector that does not end in
// 0x55AA. DiscoverPartitions does not return it: it falls back to a
// single whole-device partition instead.
var ErrInvalidMBR = errors.New("fsys: invalid MBR signature")

// Partition describes one region of a disk image discovered either
// from an MBR partition table or synthesised as the whole device.
type Partition struct {
	FSType    FileSystem
	Num       int
	Offset    uint64
	Size      uint64
	BlockSize uint32
}

// mbrPartitionType values the retrieved tool's disk package
// recognised as carrying a FAT filesystem worth probing further.
const (
	mbrTypeFAT12             = 0x01
	mbrTypeFAT16Less32MB     = 0x04
	mbrTypeExtendedCHS       = 0x05
	mbrTypeFAT16Greater32MB  = 0x06
	mbrTypeNTFSHPFSExFATQNX  = 0x07
	mbrTypeFAT32CHS          = 0x0B
	mbrTypeFAT32LBA          = 0x0C
	mbrTypeFAT16LBA          = 0x0E
	mbrTypeExtendedLBA       = 0x0F
	mbrTypeGPTProtectiveMBR  = 0xEE
)

// DiscoverPartitions parses the first 512 bytes of an image as an MBR
// and returns one Partition per non-empty table entry; if the sector
// is not a valid MBR, or the MBR carries no recognised entries, it
// returns a single partition spanning the whole device.
func DiscoverPartitions(firstSector []byte, deviceSize uint64) ([]Partition, error) {
	if len(firstSector) != 512 {
		return nil, errors.New("fsys: MBR sector must be exactly 512 bytes")
	}
	if binary.LittleEndian.Uint16(firstSector[0x1FE:0x200]) != 0xAA55 {
		return []Partition{wholeDiskPartition(deviceSize)}, nil
	}

	if firstSector[0x1BE+4] == mbrTypeGPTProtectiveMBR {
		// Protective MBR for a GPT disk: v1 does not parse the GPT
		// header itself, so fall back to treating the device as one
		// partition starting past the protective entry.
		startLBA := binary.LittleEndian.Uint32(firstSector[0x1BE+8 : 0x1BE+12])
		return []Partition{{
			Num:       0,
			Offset:    uint64(startLBA) * DefaultBlockSize,
			Size:      deviceSize,
			BlockSize: DefaultBlockSize,
		}}, nil
	}

	var partitions []Partition
	for n := 0; n < 4; n++ {
		entryOff := 0x1BE + n*16
		partType := firstSector[entryOff+4]
		if partType == 0x00 {
			continue
		}

		startLBA := binary.LittleEndian.Uint32(firstSector[entryOff+8 : entryOff+12])
		totalSectors := binary.LittleEndian.Uint32(firstSector[entryOff+12 : entryOff+16])

		p := Partition{
			Num:       n,
			Offset:    uint64(startLBA) * DefaultBlockSize,
			Size:      uint64(totalSectors) * DefaultBlockSize,
			BlockSize: DefaultBlockSize,
		}

		switch partType {
		case mbrTypeFAT12, mbrTypeFAT16Less32MB, mbrTypeFAT16Greater32MB,
			mbrTypeFAT16LBA, mbrTypeFAT32CHS, mbrTypeFAT32LBA:
			p.FSType = FAT32
		case mbrTypeNTFSHPFSExFATQNX:
			p.FSType = NTFS
		}
		partitions = append(partitions, p)
	}

	if len(partitions) == 0 {
		return []Partition{wholeDiskPartition(deviceSize)}, nil
	}
	return partitions, nil
}

func wholeDiskPartition(size uint64) Partition {
	return Partition{Num: 0, Offset: 0, Size: size, BlockSize: DefaultBlockSize}
}
