package fsys

import (
	"encoding/binary"
	"strings"
)

// FAT32 BPB field offsets, fixed by the on-disk format and mirrored
// from the retrieved tool's FatBootSector struct (there read via
// binary.Read into a tagged struct; here read directly by offset
// since analyse_fat32 only ever sees a detached byte window, not a
// seekable stream).
const (
	fatSectorSizeOff        = 0x0B
	fatSectorsPerClusterOff = 0x0D
	fatReservedSectorsOff   = 0x0E
	fatCountOff             = 0x10
	fatRootEntriesOff       = 0x11
	fatTotalSectorsOff      = 0x20
	fatFat32LengthOff       = 0x24

	fatDirEntrySize = 32

	fatEntryDeleted = 0xE5
	fatEntryFree    = 0x00
)

// AnalyseFAT32 parses the BPB at fixed offsets and walks the root
// directory's 32-byte entries, bounding every read by len(buf) and
// stopping rather than erroring on overflow (this is best-effort
// structural recognition, not a filesystem driver).
func AnalyseFAT32(buf []byte) []FileEntry {
	if len(buf) < fatFat32LengthOff+4 {
		return nil
	}

	bytesPerSector := binary.LittleEndian.Uint16(buf[fatSectorSizeOff : fatSectorSizeOff+2])
	reservedSectors := binary.LittleEndian.Uint16(buf[fatReservedSectorsOff : fatReservedSectorsOff+2])
	fatCount := buf[fatCountOff]
	rootEntries := binary.LittleEndian.Uint16(buf[fatRootEntriesOff : fatRootEntriesOff+2])
	fat32Length := binary.LittleEndian.Uint32(buf[fatFat32LengthOff : fatFat32LengthOff+4])

	if bytesPerSector == 0 {
		return nil
	}

	fatStart := uint64(reservedSectors) * uint64(bytesPerSector)
	rootStart := fatStart + uint64(fatCount)*uint64(fat32Length)*uint64(bytesPerSector)
	rootSizeBytes := uint64(rootEntries) * fatDirEntrySize

	var entries []FileEntry
	for off := rootStart; off < rootStart+rootSizeBytes; off += fatDirEntrySize {
		if off+fatDirEntrySize > uint64(len(buf)) {
			break
		}
		raw := buf[off : off+fatDirEntrySize]

		if raw[0] == fatEntryFree {
			continue
		}
		deleted := false
		if raw[0] == fatEntryDeleted {
			if isAllZero(raw[1:]) {
				continue
			}
			deleted = true
		}

		name := strings.TrimRight(string(raw[0:8]), " ")
		ext := strings.TrimRight(string(raw[8:11]), " ")
		if deleted && len(name) > 0 {
			// byte 0 was overwritten with 0xE5; the on-disk first
			// character is unrecoverable from a bare directory walk.
			name = "?" + name[1:]
		}
		fullName := name
		if ext != "" {
			fullName = name + "." + ext
		}

		size := binary.LittleEndian.Uint32(raw[0x1C : 0x1C+4])

		entries = append(entries, FileEntry{
			Name:    fullName,
			Size:    uint64(size),
			Deleted: deleted,
		})
	}
	return entries
}

func isAllZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
